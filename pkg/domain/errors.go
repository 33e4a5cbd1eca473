package domain

import "errors"

// ErrSessionNotFound is returned when a session id cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionTerminated is returned when an answer is submitted to a
// session that has already reached a terminal question.
var ErrSessionTerminated = errors.New("session terminated")

// ErrNoTransition is returned when a non-terminal question defines
// neither a matching answer-specific transition nor a default one.
// Recoverable only by configuration correction; the session keeps its
// current state.
var ErrNoTransition = errors.New("no transition found")

// ErrQuestionNotFound is returned when a resolved next-question id is
// absent from the survey. Treated like ErrNoTransition at the point
// the dangling id is reached.
var ErrQuestionNotFound = errors.New("question not found")
