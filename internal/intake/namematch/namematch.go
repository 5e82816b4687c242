// Package namematch corrects misheard patient names against the roster of
// names already on file, using Double Metaphone phonetic encoding combined
// with Jaro-Winkler similarity for ranked candidate selection.
//
// Speech-to-text reliably mangles proper nouns ("Jon Smyth" for a returning
// "John Smith"), which defeats the voice-path duplicate check: the compound
// rule compares names case-insensitively but not phonetically. This package
// is an optional enrichment applied between extraction and reconciliation —
// it only ever swaps a name for one already known to the clinic, never
// invents one, and never touches phone or address.
package namematch

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/autoaccru/frontdesk/internal/intake"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched roster name to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic match is found and the matcher falls back to pure string
// similarity. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.fuzzyThreshold = threshold
	}
}

// Matcher aligns a single extracted name word with the closest roster name.
// All methods are safe for concurrent use — the Matcher is read-only after
// construction.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New returns a [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match finds the roster name most phonetically similar to name.
//
// Candidates are filtered in two stages: names sharing a Double Metaphone
// code with the input are ranked by Jaro-Winkler and accepted above the
// phonetic threshold; when no phonetic candidate qualifies, a pure
// Jaro-Winkler pass runs against the whole roster with the stricter fuzzy
// threshold. When matched is false, corrected equals name unchanged and
// confidence is 0.
func (m *Matcher) Match(name string, roster []string) (corrected string, confidence float64, matched bool) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" || len(roster) == 0 {
		return name, 0, false
	}

	inPrimary, inSecondary := matchr.DoubleMetaphone(nameLower)

	type candidate struct {
		name     string
		score    float64
		phonetic bool
	}
	var best candidate

	for _, known := range roster {
		knownLower := strings.ToLower(strings.TrimSpace(known))
		if knownLower == "" {
			continue
		}

		kPrimary, kSecondary := matchr.DoubleMetaphone(knownLower)
		phonetic := codesOverlap(inPrimary, inSecondary, kPrimary, kSecondary)
		score := matchr.JaroWinkler(nameLower, knownLower, false)

		if phonetic {
			if score >= m.phoneticThreshold && (!best.phonetic || score > best.score) {
				best = candidate{name: known, score: score, phonetic: true}
			}
		} else if !best.phonetic {
			if score >= m.fuzzyThreshold && score > best.score {
				best = candidate{name: known, score: score}
			}
		}
	}

	if best.name != "" {
		return best.name, best.score, true
	}
	return name, 0, false
}

// CorrectCandidate returns a copy of c with its first and last name aligned
// to the respective rosters. The "Unknown" sentinel and empty names are left
// alone — there is nothing to correct when no name rule fired.
func (m *Matcher) CorrectCandidate(c intake.Candidate, firstNames, lastNames []string) intake.Candidate {
	if c.FirstName != "" && c.FirstName != intake.UnknownName {
		if corrected, _, ok := m.Match(c.FirstName, firstNames); ok {
			c.FirstName = corrected
		}
	}
	if c.LastName != "" && c.LastName != intake.UnknownName {
		if corrected, _, ok := m.Match(c.LastName, lastNames); ok {
			c.LastName = corrected
		}
	}
	return c
}

// codesOverlap reports whether any non-empty Double Metaphone code of the
// input coincides with any code of the roster name.
func codesOverlap(aPrimary, aSecondary, bPrimary, bSecondary string) bool {
	for _, a := range [2]string{aPrimary, aSecondary} {
		if a == "" {
			continue
		}
		if a == bPrimary || (bSecondary != "" && a == bSecondary) {
			return true
		}
	}
	return false
}
