package search

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/permit-registry/internal/db"
)

// StateCount is one entry in the top-states breakdown.
type StateCount struct {
	StateCode string `json:"state_code"`
	StateName string `json:"state_name"`
	Count     int    `json:"count"`
	ThisYear  int    `json:"this_year"`
}

// YearCount is the permit volume for one permit-date year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Stats is the dashboard overview.
type Stats struct {
	TotalActivePermits int          `json:"total_active_permits"`
	DistinctStates     int          `json:"distinct_states"`
	DistinctCounties   int          `json:"distinct_counties"`
	ActivePortals      int          `json:"active_portals"`
	PermitsThisMonth   int          `json:"permits_this_month"`
	PermitsThisYear    int          `json:"permits_this_year"`
	AvgQualityScore    *float64     `json:"avg_quality_score,omitempty"`
	PendingDuplicates  int          `json:"pending_duplicates"`
	TopStates          []StateCount `json:"top_states"`
	ByYear             []YearCount  `json:"by_year"`
}

// GetStats computes the dashboard statistics. The component queries are
// independent, so they fan out concurrently over the pool.
func GetStats(ctx context.Context, pool db.Pool) (*Stats, error) {
	stats := &Stats{}
	g, gCtx := errgroup.WithContext(ctx)

	scalar := func(sql string, dest any, label string) func() error {
		return func() error {
			if err := pool.QueryRow(gCtx, sql).Scan(dest); err != nil {
				return eris.Wrapf(err, "search: stats %s", label)
			}
			return nil
		}
	}

	g.Go(scalar(`SELECT count(*) FROM septic_permits WHERE is_active`,
		&stats.TotalActivePermits, "total"))
	g.Go(scalar(`SELECT count(DISTINCT state_id) FROM septic_permits WHERE is_active`,
		&stats.DistinctStates, "states"))
	g.Go(scalar(`SELECT count(DISTINCT county_id) FROM septic_permits WHERE is_active AND county_id IS NOT NULL`,
		&stats.DistinctCounties, "counties"))
	g.Go(scalar(`SELECT count(*) FROM source_portals WHERE is_active`,
		&stats.ActivePortals, "portals"))
	g.Go(scalar(`SELECT count(*) FROM septic_permits WHERE is_active AND created_at >= date_trunc('month', now())`,
		&stats.PermitsThisMonth, "this month"))
	g.Go(scalar(`SELECT count(*) FROM septic_permits WHERE is_active AND created_at >= date_trunc('year', now())`,
		&stats.PermitsThisYear, "this year"))
	g.Go(scalar(`SELECT avg(data_quality_score) FROM septic_permits WHERE is_active`,
		&stats.AvgQualityScore, "quality"))
	g.Go(scalar(`SELECT count(*) FROM permit_duplicates WHERE status='pending'`,
		&stats.PendingDuplicates, "pending duplicates"))

	g.Go(func() error {
		rows, err := pool.Query(gCtx, `
			SELECT s.code, s.name, count(*),
				count(*) FILTER (WHERE p.created_at >= date_trunc('year', now()))
			FROM septic_permits p
			JOIN states s ON s.id = p.state_id
			WHERE p.is_active
			GROUP BY s.code, s.name
			ORDER BY count(*) DESC
			LIMIT 10`)
		if err != nil {
			return eris.Wrap(err, "search: stats top states")
		}
		defer rows.Close()
		for rows.Next() {
			var sc StateCount
			if err := rows.Scan(&sc.StateCode, &sc.StateName, &sc.Count, &sc.ThisYear); err != nil {
				return eris.Wrap(err, "search: scan state count")
			}
			stats.TopStates = append(stats.TopStates, sc)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := pool.Query(gCtx, `
			SELECT extract(year FROM permit_date)::int, count(*)
			FROM septic_permits
			WHERE is_active AND permit_date IS NOT NULL
			GROUP BY 1
			ORDER BY 1 DESC
			LIMIT 10`)
		if err != nil {
			return eris.Wrap(err, "search: stats by year")
		}
		defer rows.Close()
		for rows.Next() {
			var yc YearCount
			if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
				return eris.Wrap(err, "search: scan year count")
			}
			stats.ByYear = append(stats.ByYear, yc)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
