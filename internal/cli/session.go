package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"enkat"
	"enkat/internal/presentation/tui"
	"enkat/pkg/adapters/file"
	"enkat/pkg/domain"
)

// RunSession executes one interactive conversation over the survey
// document. With a session id the conversation persists under
// .enkat/sessions and can be resumed; without one it lives and dies
// with the process.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.Plain {
		tui.PrintBanner(enkat.Version)
	}

	engineOpts := []enkat.Option{enkat.WithLogger(logger)}
	if opts.SessionID != "" {
		engineOpts = append(engineOpts, enkat.WithStore(file.NewStore("")))
	}

	eng, err := enkat.New(opts.File, engineOpts...)
	if err != nil {
		return fmt.Errorf("error initializing survey: %w", err)
	}

	chatOpts := []tui.ChatOption{tui.WithPacing(opts.Pacing)}
	if opts.Plain {
		chatOpts = append(chatOpts, tui.WithPlainRenderer())
	}
	chat := tui.NewChat(chatOpts...)

	ctx := context.Background()
	state, err := eng.StartSession(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	sessionID := state.SessionID

	if len(state.History) > 0 {
		logger.Info("session resumed", "session_id", sessionID, "question", state.Current)
		printSystemMessage("Resuming at '%s' question...", state.Current)
	} else if opts.SessionID != "" {
		logger.Info("session created", "session_id", sessionID)
		printSystemMessage("Session '%s' active.", sessionID)
	}

	survey, err := eng.Survey(ctx)
	if err != nil {
		return err
	}

	chat.PrintMessages(state.Log)
	if q, ok := survey.Question(state.Current); ok {
		chat.PrintOptions(q)
	}

	reader := bufio.NewReader(os.Stdin)
	for state.Status != domain.StatusTerminal {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				printSystemMessage("Interrupted at '%s' question.", state.Current)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			printSystemMessage("Paused at '%s' question.", state.Current)
			return nil
		}

		messages, err := eng.Answer(ctx, sessionID, input)
		if err != nil {
			if errors.Is(err, domain.ErrNoTransition) || errors.Is(err, domain.ErrQuestionNotFound) {
				printSystemMessage("No path from here for that answer, try again.")
				continue
			}
			return err
		}

		// The respondent's line is already on screen; print the rest.
		chat.PrintMessages(messages[1:])

		state, err = eng.Session(ctx, sessionID)
		if err != nil {
			return err
		}
		if state.Status != domain.StatusTerminal {
			if q, ok := survey.Question(state.Current); ok {
				chat.PrintOptions(q)
			}
		}
	}

	printSystemMessage("Finished at '%s' question.", state.Current)
	return nil
}
