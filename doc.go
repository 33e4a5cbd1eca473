// Package enkat implements a conversational survey engine: a survey
// is a graph of questions, a session walks the graph one answer at a
// time, and resolution (answer-keyed transitions, skip rules, pronoun
// adaptation) decides what the respondent sees next.
//
// The root package is a facade over the building blocks:
//
//   - pkg/domain holds the survey and session types.
//   - pkg/textkey normalizes answer text into matching keys.
//   - pkg/session runs conversations and serializes concurrent answers.
//   - pkg/ports defines the provider, store and sink interfaces, with
//     implementations under pkg/adapters (memory, file, redis, http).
//
// A minimal embedding:
//
//	eng, err := enkat.New("survey.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	state, _ := eng.StartSession(ctx, "")
//	messages, err := eng.Answer(ctx, state.SessionID, "Ja, jag vill delta")
package enkat
