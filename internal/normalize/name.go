package normalize

import (
	"regexp"
	"strings"
)

var (
	namePunct = strings.NewReplacer(".", "", ",", "", "'", "", `"`, "", "(", "", ")", "")

	// Generational and professional suffixes, stripped as whole words.
	nameSuffixRe = regexp.MustCompile(`\b(JR|SR|II|III|IV|V|ESQ|PHD|MD|DDS)\b`)

	// Business-entity designators. Dotted variants (L.L.C.) collapse to the
	// plain forms once punctuation is removed, so only those are listed.
	entityRe = regexp.MustCompile(`\b(LLC|INC|INCORPORATED|CORP|CORPORATION|LTD|LIMITED|LP|LLP|PC|PLLC|CO|COMPANY|TRUST|ESTATE|PARTNERSHIP)\b`)
)

// OwnerName normalizes an owner/applicant name for fuzzy matching:
// uppercase, punctuation stripped, generational suffixes and business
// designators removed as whole words, whitespace collapsed.
func OwnerName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ToUpper(strings.TrimSpace(raw))
	s = namePunct.Replace(s)
	s = nameSuffixRe.ReplaceAllString(s, "")
	s = entityRe.ReplaceAllString(s, "")

	return strings.Join(strings.Fields(s), " ")
}
