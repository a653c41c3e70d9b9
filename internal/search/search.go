// Package search serves paginated, ranked, faceted queries over active
// permits: full-text rank blended with trigram address similarity, hard
// filters, a bounding-box geo filter, and dashboard statistics.
package search

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/db"
	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/store"
)

// ResultItem is one ranked hit.
type ResultItem struct {
	Permit            model.Permit      `json:"permit"`
	StateCode         string            `json:"state_code"`
	Score             float64           `json:"score"`
	KeywordScore      float64           `json:"keyword_score"`
	AddressSimilarity float64           `json:"address_similarity"`
	Highlights        map[string]string `json:"highlights,omitempty"`
}

// Facet is one count-by-category bucket for UI filter suggestions.
type Facet struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Result is one search response page.
type Result struct {
	Items        []ResultItem `json:"results"`
	Total        int          `json:"total"`
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	TotalPages   int          `json:"total_pages"`
	ExecutionMs  float64      `json:"execution_ms"`
	StateFacets  []Facet      `json:"state_facets,omitempty"`
	CountyFacets []Facet      `json:"county_facets,omitempty"`
}

// Execute runs a search. Params must already be normalized; query failures
// surface as one opaque error without leaking SQL structure to callers.
func Execute(ctx context.Context, q db.Querier, p *Params) (*Result, error) {
	start := time.Now()

	resultSQL, countSQL, args := buildQueries(p)

	var total int
	// The count query binds a prefix of the result query's arguments:
	// pagination placeholders come last by construction.
	countArgs := args[:len(args)-2]
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "search: count")
	}

	rows, err := q.Query(ctx, resultSQL, args...)
	if err != nil {
		return nil, eris.Wrap(err, "search: execute")
	}
	defer rows.Close()

	var items []ResultItem
	for rows.Next() {
		var it ResultItem
		dests := store.PermitDests(&it.Permit)
		dests = append(dests, &it.StateCode, &it.Score, &it.KeywordScore, &it.AddressSimilarity)
		if err := rows.Scan(dests...); err != nil {
			return nil, eris.Wrap(err, "search: scan result")
		}
		it.Highlights = highlights(&it.Permit, p.Query)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "search: iterate results")
	}

	res := &Result{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(p.PageSize))),
	}

	if err := attachFacets(ctx, q, p, res); err != nil {
		return nil, err
	}

	res.ExecutionMs = float64(time.Since(start).Microseconds()) / 1000
	return res, nil
}

// attachFacets adds filter suggestions: top states when state is
// unfiltered, top counties within the filtered states otherwise.
func attachFacets(ctx context.Context, q db.Querier, p *Params, res *Result) error {
	if len(p.StateCodes) == 0 {
		rows, err := q.Query(ctx, `
			SELECT s.code, s.name, count(*)
			FROM septic_permits p
			JOIN states s ON s.id = p.state_id
			WHERE p.is_active
			GROUP BY s.code, s.name
			ORDER BY count(*) DESC
			LIMIT 20`)
		if err != nil {
			return eris.Wrap(err, "search: state facets")
		}
		defer rows.Close()
		res.StateFacets, err = scanFacets(rows)
		return err
	}

	if len(p.CountyIDs) == 0 {
		rows, err := q.Query(ctx, `
			SELECT c.id::text, c.name, count(*)
			FROM septic_permits p
			JOIN states s ON s.id = p.state_id
			JOIN counties c ON c.id = p.county_id
			WHERE p.is_active AND s.code = ANY($1)
			GROUP BY c.id, c.name
			ORDER BY count(*) DESC
			LIMIT 50`, p.StateCodes)
		if err != nil {
			return eris.Wrap(err, "search: county facets")
		}
		defer rows.Close()
		res.CountyFacets, err = scanFacets(rows)
		return err
	}

	return nil
}

func scanFacets(rows pgx.Rows) ([]Facet, error) {
	var facets []Facet
	for rows.Next() {
		var f Facet
		if err := rows.Scan(&f.Key, &f.Label, &f.Count); err != nil {
			return nil, eris.Wrap(err, "search: scan facet")
		}
		facets = append(facets, f)
	}
	return facets, rows.Err()
}
