package intake

import (
	"fmt"
	"regexp"
	"strings"
)

// Sentinel values filled in by [ApplyDefaults] for fields no rule resolved.
const (
	UnknownName        = "Unknown"
	UnspecifiedAddress = "Unspecified"
)

// Candidate is the output of extraction before default-filling and identity
// reconciliation. Empty name/address strings mean "no rule fired"; a nil
// PhoneNumber means the phone was absent or could not reach ten digits.
type Candidate struct {
	FirstName   string
	LastName    string
	PhoneNumber *string
	Address     string
}

var (
	fullNameRe  = regexp.MustCompile(`my name is\s+([a-z]+)\s+([a-z]+)`)
	firstNameRe = regexp.MustCompile(`first name is\s+([a-z]+)`)
	lastNameRe  = regexp.MustCompile(`last name is\s+([a-z]+)`)

	phoneRe = regexp.MustCompile(`(?:phone number is|my phone number is|my number is|contact number is|call me at)[\s,:-]*([0-9()\s-]+)`)

	// The address capture is lazy and terminates at the literal word "and" or
	// end of string. An address that itself contains "and" ("smith and sons
	// street") truncates at it. Known behavior, kept.
	addressRe = regexp.MustCompile(`(?:my address is|address is|i live at|i live in)[\s,:-]*([a-z0-9\s]+?)(?:\s*\band\b|$)`)

	nonDigits = regexp.MustCompile(`[^0-9]`)
)

// rule is one extraction step. Rules run in fixed order over the normalized
// transcript; each writes only fields it resolves and skips fields an earlier
// rule already set.
type rule struct {
	name  string
	apply func(s string, c *Candidate)
}

// rules is the ordered rule list. The composite full-name rule runs before
// the split first/last rules so the split patterns cannot fire on fragments
// of a sentence the full pattern already consumed.
var rules = []rule{
	{name: "full-name", apply: extractFullName},
	{name: "split-name", apply: extractSplitName},
	{name: "phone", apply: extractPhone},
	{name: "address", apply: extractAddress},
}

// Extract applies the ordered rule list to a normalized transcript and
// returns the resulting candidate. It is pure and never fails: a transcript
// matching zero rules yields a zero-valued candidate for [ApplyDefaults] to
// fill.
func Extract(normalized string) Candidate {
	var c Candidate
	for _, r := range rules {
		r.apply(normalized, &c)
	}
	return c
}

// ApplyDefaults returns a copy of c with unresolved fields replaced by their
// fixed sentinels: names become "Unknown", the address becomes "Unspecified",
// and a present-but-blank phone is nulled rather than stored empty.
func ApplyDefaults(c Candidate) Candidate {
	if c.FirstName == "" {
		c.FirstName = UnknownName
	}
	if c.LastName == "" {
		c.LastName = UnknownName
	}
	if c.Address == "" {
		c.Address = UnspecifiedAddress
	}
	if c.PhoneNumber != nil && strings.TrimSpace(*c.PhoneNumber) == "" {
		c.PhoneNumber = nil
	}
	return c
}

func extractFullName(s string, c *Candidate) {
	m := fullNameRe.FindStringSubmatch(s)
	if m == nil {
		return
	}
	c.FirstName = capitalize(m[1])
	c.LastName = capitalize(m[2])
}

// extractSplitName fires only when the composite full-name rule found
// nothing. The first-name and last-name patterns are independent; either,
// both, or neither may match.
func extractSplitName(s string, c *Candidate) {
	if c.FirstName != "" || c.LastName != "" {
		return
	}
	if m := firstNameRe.FindStringSubmatch(s); m != nil {
		c.FirstName = capitalize(m[1])
	}
	if m := lastNameRe.FindStringSubmatch(s); m != nil {
		c.LastName = capitalize(m[1])
	}
}

// extractPhone captures the digit run after any phone trigger phrase. Ten or
// more digits are truncated to the first ten and grouped as DDD-DDD-DDDD;
// fewer than ten leaves the field explicitly unset, never partially filled.
func extractPhone(s string, c *Candidate) {
	m := phoneRe.FindStringSubmatch(s)
	if m == nil {
		return
	}
	digits := nonDigits.ReplaceAllString(m[1], "")
	if len(digits) < 10 {
		c.PhoneNumber = nil
		return
	}
	digits = digits[:10]
	formatted := fmt.Sprintf("%s-%s-%s", digits[0:3], digits[3:6], digits[6:10])
	c.PhoneNumber = &formatted
}

func extractAddress(s string, c *Candidate) {
	m := addressRe.FindStringSubmatch(s)
	if m == nil {
		return
	}
	addr := strings.ReplaceAll(m[1], ",", "")
	addr = whitespace.ReplaceAllString(addr, " ")
	c.Address = titleCase(strings.TrimSpace(addr))
}

// capitalize uppercases the first character of a word and lowercases the
// rest. Extraction patterns only capture ASCII words, so byte indexing is
// safe here.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// titleCase capitalizes every space-separated word and joins them back with
// single spaces.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, capitalize(w))
	}
	return strings.Join(out, " ")
}
