package search

import (
	"strings"

	"github.com/sells-group/permit-registry/internal/model"
)

const snippetContext = 20

// Snippet returns a ±20-character window around the first case-insensitive
// occurrence of query in text, with ellipsis markers where the window
// clips. Empty when there is no match. UI sugar only; ranking happens in
// the database.
func Snippet(text, query string) string {
	if text == "" || query == "" {
		return ""
	}

	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 {
		return ""
	}

	start := idx - snippetContext
	end := idx + len(query) + snippetContext

	prefix, suffix := "", ""
	if start < 0 {
		start = 0
	} else if start > 0 {
		prefix = "..."
	}
	if end >= len(text) {
		end = len(text)
	} else {
		suffix = "..."
	}

	return prefix + text[start:end] + suffix
}

// highlights scans the permit's display fields for the raw query and
// returns snippets per matched field.
func highlights(p *model.Permit, query string) map[string]string {
	if query == "" {
		return nil
	}

	fields := map[string]*string{
		"address":       p.Address,
		"owner_name":    p.OwnerName,
		"city":          p.City,
		"permit_number": p.PermitNumber,
	}

	var out map[string]string
	for name, val := range fields {
		if val == nil {
			continue
		}
		if snip := Snippet(*val, query); snip != "" {
			if out == nil {
				out = make(map[string]string, len(fields))
			}
			out[name] = snip
		}
	}
	return out
}
