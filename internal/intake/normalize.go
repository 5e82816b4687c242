// Package intake turns a free-form spoken intake transcript into a candidate
// patient visit record.
//
// Processing is a fixed two-stage pipeline: [Normalize] cleans the raw
// transcript into a canonical lowercase form, and [Extract] runs an ordered
// list of pattern rules over it to pull out name, phone number, and address.
// Rule misses are not errors — unresolved fields are filled with fixed
// sentinels by [ApplyDefaults].
package intake

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[,.;!?]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// phraseRewrites are literal rewrites applied to the whole transcript after
// punctuation stripping, in order. Later rewrites see the output of earlier
// ones; the third is subsumed by the first but is kept so a rewrite list edit
// upstream never silently changes behavior.
var phraseRewrites = [][2]string{
	{"adress", "address"},
	{"live on", "live at"},
	{"adress is", "address is"},
}

// Normalize canonicalises a raw transcript: lowercases it, replaces the
// punctuation characters ",.;!?" with spaces, collapses whitespace runs to a
// single space, applies the fixed phrase rewrites, and trims. It never fails;
// an empty input yields an empty string.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	for _, rw := range phraseRewrites {
		s = strings.ReplaceAll(s, rw[0], rw[1])
	}
	return strings.TrimSpace(s)
}
