package domain

// LifecycleHooks defines callbacks for engine observability. All
// fields are optional; nil hooks are skipped.
type LifecycleHooks struct {
	// OnQuestionShown fires when a question's message is appended to
	// the transcript.
	OnQuestionShown func(sessionID, questionID string)

	// OnAnswerRecorded fires after an answer is appended to history.
	OnAnswerRecorded func(sessionID string, ans RecordedAnswer)

	// OnSkipApplied fires for each skip-rule redirect, with the
	// candidate that was overridden and the id it redirected to.
	OnSkipApplied func(sessionID, from, to string)

	// OnResolutionGap fires when resolution finds no next question
	// for a non-terminal question (configuration gap or dangling
	// reference).
	OnResolutionGap func(sessionID, questionID string)

	// OnSkipCeiling fires when the skip fixed-point loop hits its
	// iteration ceiling without converging.
	OnSkipCeiling func(sessionID, questionID string)
}
