package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/permit-registry/internal/store"
)

// sqlBuilder accumulates a parameterized SQL statement.
type sqlBuilder struct {
	args []any
}

// bind registers an argument and returns its placeholder.
func (b *sqlBuilder) bind(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

// relevanceExpr is the hybrid ranking formula: full-text rank dominates,
// trigram address similarity softens exact-term misses.
func relevanceExpr(q string) string {
	return fmt.Sprintf(
		"(0.7 * ts_rank(p.search_vector, plainto_tsquery('english', %s)) + 0.3 * COALESCE(similarity(p.address_normalized, upper(%s)), 0))",
		q, q,
	)
}

// buildQueries constructs the result query and the matching count query
// for a normalized Params. Both share the same WHERE clause; only the
// result query carries ranking, ordering, and pagination.
func buildQueries(p *Params) (resultSQL string, countSQL string, args []any) {
	b := &sqlBuilder{}
	var conds []string

	if !p.IncludeInactive {
		conds = append(conds, "p.is_active")
	}
	if len(p.StateCodes) > 0 {
		conds = append(conds, fmt.Sprintf("s.code = ANY(%s)", b.bind(p.StateCodes)))
	}
	if len(p.CountyIDs) > 0 {
		conds = append(conds, fmt.Sprintf("p.county_id = ANY(%s)", b.bind(p.CountyIDs)))
	}
	if p.City != "" {
		conds = append(conds, fmt.Sprintf("p.city ILIKE '%%' || %s || '%%'", b.bind(p.City)))
	}
	if p.ZipCode != "" {
		conds = append(conds, fmt.Sprintf("p.zip_code = %s", b.bind(p.ZipCode)))
	}
	if len(p.SystemTypeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("p.system_type_id = ANY(%s)", b.bind(p.SystemTypeIDs)))
	}
	if p.PermitDateFrom != nil {
		conds = append(conds, fmt.Sprintf("p.permit_date >= %s", b.bind(*p.PermitDateFrom)))
	}
	if p.PermitDateTo != nil {
		conds = append(conds, fmt.Sprintf("p.permit_date <= %s", b.bind(*p.PermitDateTo)))
	}
	if p.InstallDateFrom != nil {
		conds = append(conds, fmt.Sprintf("p.install_date >= %s", b.bind(*p.InstallDateFrom)))
	}
	if p.InstallDateTo != nil {
		conds = append(conds, fmt.Sprintf("p.install_date <= %s", b.bind(*p.InstallDateTo)))
	}

	if p.RadiusMiles != nil && p.Latitude != nil && p.Longitude != nil {
		// Bounding-box approximation: one degree of latitude is ~69 miles;
		// longitude degrees shrink by cos(latitude). Good enough at
		// county-address scale; not a great-circle guarantee.
		latDelta := *p.RadiusMiles / 69.0
		lonDelta := *p.RadiusMiles / (69.0 * math.Cos(*p.Latitude*math.Pi/180))
		conds = append(conds, fmt.Sprintf("p.latitude BETWEEN %s AND %s",
			b.bind(*p.Latitude-latDelta), b.bind(*p.Latitude+latDelta)))
		conds = append(conds, fmt.Sprintf("p.longitude BETWEEN %s AND %s",
			b.bind(*p.Longitude-lonDelta), b.bind(*p.Longitude+lonDelta)))
	}

	relevance := "0::float8"
	keyword := "0::float8"
	similarity := "0::float8"
	if p.Query != "" {
		q := b.bind(p.Query)
		conds = append(conds, fmt.Sprintf(
			"(p.search_vector @@ plainto_tsquery('english', %s) OR COALESCE(similarity(p.address_normalized, upper(%s)), 0) > 0.1)",
			q, q,
		))
		relevance = relevanceExpr(q)
		keyword = fmt.Sprintf("ts_rank(p.search_vector, plainto_tsquery('english', %s))", q)
		similarity = fmt.Sprintf("COALESCE(similarity(p.address_normalized, upper(%s)), 0)", q)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	from := " FROM septic_permits p JOIN states s ON s.id = p.state_id"

	countSQL = "SELECT count(*)" + from + where

	resultSQL = "SELECT " + store.QualifiedPermitColumns + ", s.code" +
		", " + relevance + " AS relevance" +
		", " + keyword + " AS keyword_rank" +
		", " + similarity + " AS address_similarity" +
		from + where +
		" ORDER BY " + orderClause(p) +
		fmt.Sprintf(" LIMIT %s OFFSET %s", b.bind(p.PageSize), b.bind((p.Page-1)*p.PageSize))

	return resultSQL, countSQL, b.args
}

// orderClause maps the sort key to a deterministic ORDER BY. Ties and the
// no-sort default break on recency, then ID, so pagination never repeats
// or drops rows.
func orderClause(p *Params) string {
	dir := strings.ToUpper(p.SortOrder)
	switch p.SortBy {
	case SortRelevance:
		if p.Query != "" {
			return "relevance " + dir + ", p.created_at DESC, p.id"
		}
		return "p.created_at DESC, p.id"
	case SortPermitDate:
		return "p.permit_date " + dir + " NULLS LAST, p.created_at DESC, p.id"
	case SortAddress:
		return "p.address_normalized " + dir + " NULLS LAST, p.created_at DESC, p.id"
	case SortOwnerName:
		return "p.owner_name " + dir + " NULLS LAST, p.created_at DESC, p.id"
	default:
		if p.Query != "" {
			return "relevance DESC, p.created_at DESC, p.id"
		}
		return "p.created_at DESC, p.id"
	}
}
