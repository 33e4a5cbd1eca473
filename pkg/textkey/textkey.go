// Package textkey turns arbitrary answer or option text into the
// canonical identifier-safe keys used for transition lookup.
package textkey

import (
	"regexp"
	"strings"
)

var (
	swedish   = strings.NewReplacer("å", "a", "ä", "a", "ö", "o", "Å", "a", "Ä", "a", "Ö", "o")
	nonKey    = regexp.MustCompile(`[^a-z0-9]+`)
	underscoreEdges = regexp.MustCompile(`^_+|_+$`)
)

// Normalize converts text into a canonical lookup key: trim and
// lower-case, transliterate the Swedish vowels to ASCII, collapse
// every run of characters outside [a-z0-9] into a single underscore,
// and trim leading/trailing underscores.
//
// Normalize is pure and idempotent; equal inputs always produce equal
// outputs. Empty input yields the empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(text))
	key = swedish.Replace(key)
	key = nonKey.ReplaceAllString(key, "_")
	return underscoreEdges.ReplaceAllString(key, "")
}

// JoinSelections collapses a multiple-choice selection into the single
// raw answer string handed to resolution. A joined answer only matches
// an answer-specific transition if the survey author anticipated the
// exact joined string; in practice multi-select questions rely on the
// default transition.
func JoinSelections(selected []string) string {
	return strings.Join(selected, ", ")
}
