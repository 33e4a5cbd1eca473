// Package dsl provides a fluent builder for constructing surveys in
// Go code, as an alternative to YAML/JSON documents. It is mostly
// useful in tests and embedded setups:
//
//	survey, err := dsl.New().
//		Start("welcome").
//		Add("welcome").Ask("Vill du delta?").
//			Options("Ja, jag vill delta", "Nej tack").
//			On("Ja, jag vill delta", "intro").
//			On("Nej tack", "early_exit").
//			Done().
//		Add("intro").Ask("Hur ser ditt hushåll ut?").
//			Options("Singelhushåll", "Familj med barn").
//			Go("thank_you").
//			Done().
//		Add("early_exit").Ask("Tack ändå!").Terminal().Done().
//		Add("thank_you").Ask("Tack!").Terminal().Done().
//		Build()
//
// Answer routing and skip predicates take display text and normalize
// it internally, so builder code reads the way the survey does.
package dsl
