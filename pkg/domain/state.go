package domain

import "time"

// SessionStatus defines the current mode of a conversation session.
type SessionStatus string

const (
	// StatusAwaitingAnswer means the session is waiting for the
	// respondent to answer the current question.
	StatusAwaitingAnswer SessionStatus = "awaiting_answer"
	// StatusTerminal means a terminal question has been answered and
	// the conversation is over.
	StatusTerminal SessionStatus = "terminal"
)

// Speaker identifies the author of a transcript message.
type Speaker string

const (
	SpeakerBot        Speaker = "bot"
	SpeakerRespondent Speaker = "respondent"
)

// Message is one transcript entry, post pronoun adaptation.
type Message struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// RecordedAnswer is one history entry. Immutable once appended; the
// engine never rewrites history, only appends. RawAnswer is the
// unadapted input and is what all matching logic runs on.
type RecordedAnswer struct {
	QuestionID string    `json:"question_id"`
	RawAnswer  string    `json:"raw_answer"`
	AnsweredAt time.Time `json:"answered_at"`
}

// SessionState is the serializable snapshot of one respondent's
// conversation. It is the unit persisted by session stores.
type SessionState struct {
	SessionID string           `json:"session_id"`
	Current   string           `json:"current"`
	Status    SessionStatus    `json:"status"`
	History   []RecordedAnswer `json:"history"`
	Log       []Message        `json:"log"`

	// Sealed holds the opaque ciphertext written by the encryption
	// store middleware. In a sealed snapshot every field except
	// SessionID and Status is empty.
	Sealed string `json:"sealed,omitempty"`
}

// NewSessionState creates a clean state awaiting the start question.
func NewSessionState(sessionID, startID string) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Current:   startID,
		Status:    StatusAwaitingAnswer,
	}
}

// Clone returns a deep copy so callers can't mutate shared state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]RecordedAnswer(nil), s.History...)
	out.Log = append([]Message(nil), s.Log...)
	return &out
}

// AnswerTo returns the most recent recorded answer for a question id.
// Most-recent wins when a skip loop has revisited a question.
func (s *SessionState) AnswerTo(questionID string) (RecordedAnswer, bool) {
	return LatestAnswer(s.History, questionID)
}

// LatestAnswer scans a history slice from the end for the given
// question id.
func LatestAnswer(history []RecordedAnswer, questionID string) (RecordedAnswer, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].QuestionID == questionID {
			return history[i], true
		}
	}
	return RecordedAnswer{}, false
}
