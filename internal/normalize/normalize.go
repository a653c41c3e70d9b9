// Package normalize converts raw scraped location and identity text into
// canonical comparable forms. Two records describing the same real-world
// permit must normalize to the same strings so that hash-based dedup works
// across inconsistent source formats.
//
// All functions are pure: malformed or empty input degrades to the empty
// string, never an error.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// compoundDirRe collapses dotted compound directionals (S.W. -> SW)
	// before punctuation stripping turns the dots into spaces.
	compoundDirRe = regexp.MustCompile(`\b([NSEW])\.([NSEW])\.?\b`)
	ordinalRe     = regexp.MustCompile(`\b(\d+)(ST|ND|RD|TH)\b`)

	addressPunct = strings.NewReplacer(".", " ", ",", " ", "#", " ")
	addressQuote = strings.NewReplacer("'", "", `"`, "")
)

// Address normalizes a street address to USPS standard format: uppercase,
// punctuation stripped, suffix/directional/unit words abbreviated, ordinal
// suffixes removed, whitespace collapsed. Returns "" for blank input.
// Idempotent: Address(Address(s)) == Address(s).
func Address(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ToUpper(raw)
	s = compoundDirRe.ReplaceAllString(s, "$1$2")
	s = addressPunct.Replace(s)
	s = addressQuote.Replace(s)

	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if repl, ok := directionals[w]; ok {
			w = repl
		} else if repl, ok := streetSuffixes[w]; ok {
			w = repl
		} else if repl, ok := unitDesignators[w]; ok {
			w = repl
		}
		out = append(out, w)
	}

	s = strings.Join(out, " ")
	s = ordinalRe.ReplaceAllString(s, "$1")

	return strings.Join(strings.Fields(s), " ")
}
