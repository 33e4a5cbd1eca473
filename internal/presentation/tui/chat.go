package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"enkat/pkg/domain"
)

// DefaultPacing is the per-message pause before a bot line is shown,
// simulating the typing indicator of the chat widget this replaces.
const DefaultPacing = 700 * time.Millisecond

// Chat prints a conversation transcript to a terminal. Bot messages
// are rendered as markdown; respondent messages are echoed as a
// dimmed prompt line.
type Chat struct {
	out    io.Writer
	render func(string) (string, error)
	pacing time.Duration
	sleep  func(time.Duration)
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithOutput redirects chat output away from stdout.
func WithOutput(w io.Writer) ChatOption {
	return func(c *Chat) { c.out = w }
}

// WithPacing sets the pause before each bot message. Zero disables it.
func WithPacing(d time.Duration) ChatOption {
	return func(c *Chat) { c.pacing = d }
}

// WithPlainRenderer disables markdown styling, for non-TTY output.
func WithPlainRenderer() ChatOption {
	return func(c *Chat) {
		c.render = func(s string) (string, error) { return s + "\n", nil }
	}
}

func withSleep(fn func(time.Duration)) ChatOption {
	return func(c *Chat) { c.sleep = fn }
}

// NewChat creates a transcript printer with glamour rendering and the
// default pacing.
func NewChat(opts ...ChatOption) *Chat {
	c := &Chat{
		render: NewRenderer(),
		pacing: DefaultPacing,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c
}

// PrintMessage writes one transcript message.
func (c *Chat) PrintMessage(msg domain.Message) {
	switch msg.Speaker {
	case domain.SpeakerRespondent:
		fmt.Fprintf(c.out, "> %s\n", msg.Text)
	default:
		if c.pacing > 0 {
			c.sleep(c.pacing)
		}
		rendered, err := c.render(msg.Text)
		if err != nil {
			rendered = msg.Text + "\n"
		}
		fmt.Fprint(c.out, rendered)
	}
}

// PrintMessages writes messages in order, pacing each bot line.
func (c *Chat) PrintMessages(msgs []domain.Message) {
	for _, msg := range msgs {
		c.PrintMessage(msg)
	}
}

// PrintOptions lists the fixed choices of the current question.
func (c *Chat) PrintOptions(q domain.Question) {
	if len(q.Options) == 0 {
		return
	}
	for i, opt := range q.Options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt)
	}
}
