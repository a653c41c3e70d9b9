package normalize

import (
	"regexp"
	"strings"
)

var (
	countySuffixRe = regexp.MustCompile(`\s+COUNTY$`)
	saintRe        = regexp.MustCompile(`\bST\.?\s`)
	countyPunct    = strings.NewReplacer(".", "", ",", "")
)

// County normalizes a county name: uppercase, trailing "COUNTY" dropped,
// ST./ST expanded to SAINT, punctuation stripped, whitespace collapsed.
func County(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ToUpper(strings.TrimSpace(raw))
	s = countySuffixRe.ReplaceAllString(s, "")
	s = saintRe.ReplaceAllString(s, "SAINT ")
	s = countyPunct.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

// State resolves a state name or abbreviation to its 2-letter USPS code.
// Two-letter input is validated against the closed code set; longer input
// is matched against the full-name table. Anything else returns "".
func State(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if len(s) == 2 {
		if validStateCodes[s] {
			return s
		}
		return ""
	}

	return stateCodes[s]
}
