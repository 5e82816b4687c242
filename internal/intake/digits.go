package intake

import (
	"regexp"
	"strings"
)

// digitWords maps spoken digit words to numerals, applied sequentially in
// this exact order. Order is load-bearing: "two" must rewrite before "to",
// and once "to" has rewritten, "too" has already become "2o" and its own
// entry no longer fires. The homophone entries ("oh", "to", "for") make this
// rewrite far too aggressive for prose, which is why it is only applied to a
// raw phone capture and never to the whole transcript.
var digitWords = [][2]string{
	{"zero", "0"}, {"oh", "0"},
	{"one", "1"},
	{"two", "2"}, {"to", "2"}, {"too", "2"},
	{"three", "3"},
	{"four", "4"}, {"for", "4"},
	{"five", "5"},
	{"six", "6"},
	{"seven", "7"},
	{"eight", "8"},
	{"nine", "9"},
}

// DigitWords rewrites spelled-out digits ("five five five...") in s to
// numerals. It is an opt-in pre-pass for phone captures that contain letters,
// for callers whose transcription service spells numbers out; the default
// extraction pipeline does not invoke it.
func DigitWords(s string) string {
	s = strings.ToLower(s)
	for _, dw := range digitWords {
		s = strings.ReplaceAll(s, dw[0], dw[1])
	}
	return s
}

var (
	phoneTriggerRe = regexp.MustCompile(`\b(?:my phone number is|phone number is|my number is|contact number is|call me at)\b`)
	clauseBreakRe  = regexp.MustCompile(`\band\b`)
)

// SpokenPhoneDigits applies [DigitWords] to the clause following the first
// phone trigger phrase in a normalized transcript, stopping at the next
// "and". The rest of the transcript is returned untouched, so triggers like
// "phone" never decay to "ph1".
func SpokenPhoneDigits(s string) string {
	loc := phoneTriggerRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	head, tail := s[:loc[1]], s[loc[1]:]
	rest := ""
	if i := clauseBreakRe.FindStringIndex(tail); i != nil {
		tail, rest = tail[:i[0]], tail[i[0]:]
	}
	return head + DigitWords(tail) + rest
}
