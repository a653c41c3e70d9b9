package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
)

// GetStateByCode fetches a state by its 2-letter code. Returns nil when
// the code is unknown; states are pre-seeded and never created here.
func (s *Store) GetStateByCode(ctx context.Context, code string) (*model.State, error) {
	st := &model.State{}
	err := s.q.QueryRow(ctx, `
		SELECT id, code, name, fips_code, region, is_active
		FROM states WHERE code=$1`, code).
		Scan(&st.ID, &st.Code, &st.Name, &st.FIPSCode, &st.Region, &st.IsActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get state %s", code)
	}
	return st, nil
}

// ListStates returns all states ordered by code.
func (s *Store) ListStates(ctx context.Context) ([]model.State, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, code, name, fips_code, region, is_active
		FROM states ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list states")
	}
	defer rows.Close()

	var states []model.State
	for rows.Next() {
		var st model.State
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.FIPSCode, &st.Region, &st.IsActive); err != nil {
			return nil, eris.Wrap(err, "store: scan state")
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

const countyColumns = `id, state_id, name, normalized_name, fips_code, population,
	centroid_lat, centroid_lon, min_lat, min_lon, max_lat, max_lon`

func countyDests(c *model.County) []any {
	return []any{
		&c.ID, &c.StateID, &c.Name, &c.NormalizedName, &c.FIPSCode, &c.Population,
		&c.CentroidLat, &c.CentroidLon, &c.MinLat, &c.MinLon, &c.MaxLat, &c.MaxLon,
	}
}

// GetCountyByKey fetches a county by its canonical (state, normalized name)
// key. Returns nil when absent.
func (s *Store) GetCountyByKey(ctx context.Context, stateID int, normalizedName string) (*model.County, error) {
	c := &model.County{}
	err := s.q.QueryRow(ctx, `
		SELECT `+countyColumns+`
		FROM counties WHERE state_id=$1 AND normalized_name=$2`, stateID, normalizedName).
		Scan(countyDests(c)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get county %d/%s", stateID, normalizedName)
	}
	return c, nil
}

// GetCountyByID fetches a county by ID. Returns nil when absent.
func (s *Store) GetCountyByID(ctx context.Context, id int) (*model.County, error) {
	c := &model.County{}
	err := s.q.QueryRow(ctx, `
		SELECT `+countyColumns+` FROM counties WHERE id=$1`, id).
		Scan(countyDests(c)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get county %d", id)
	}
	return c, nil
}

// CreateCounty inserts a county, preserving the raw name alongside its
// normalized key, and sets its ID. Races with a concurrent creator resolve
// to the existing row.
func (s *Store) CreateCounty(ctx context.Context, c *model.County) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO counties (state_id, name, normalized_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (state_id, normalized_name) DO UPDATE SET name = counties.name
		RETURNING id`,
		c.StateID, c.Name, c.NormalizedName,
	).Scan(&c.ID)
	if err != nil {
		return eris.Wrapf(err, "store: create county %s", c.Name)
	}
	return nil
}

// ListCountiesByState returns the counties of the given states (all when
// empty), ordered by name.
func (s *Store) ListCountiesByState(ctx context.Context, stateCodes []string) ([]model.County, error) {
	sql := `SELECT ` + countyColumns + ` FROM counties`
	var args []any
	if len(stateCodes) > 0 {
		sql = `SELECT ` + countyColumns + ` FROM counties
			WHERE state_id IN (SELECT id FROM states WHERE code = ANY($1))`
		args = append(args, stateCodes)
	}
	sql += ` ORDER BY name`

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: list counties")
	}
	defer rows.Close()

	var counties []model.County
	for rows.Next() {
		var c model.County
		if err := rows.Scan(countyDests(&c)...); err != nil {
			return nil, eris.Wrap(err, "store: scan county")
		}
		counties = append(counties, c)
	}
	return counties, rows.Err()
}

// ListSystemTypes returns all septic system types ordered by code.
func (s *Store) ListSystemTypes(ctx context.Context) ([]model.SystemType, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, code, name, category, description
		FROM septic_system_types ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list system types")
	}
	defer rows.Close()

	var types []model.SystemType
	for rows.Next() {
		var t model.SystemType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.Description); err != nil {
			return nil, eris.Wrap(err, "store: scan system type")
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// GetPortalByCode fetches a source portal by code. Returns nil when absent.
func (s *Store) GetPortalByCode(ctx context.Context, code string) (*model.SourcePortal, error) {
	p := &model.SourcePortal{}
	err := s.q.QueryRow(ctx, `
		SELECT id, code, name, state_id, platform, base_url, is_active,
			last_scraped_at, total_records_scraped, notes
		FROM source_portals WHERE code=$1`, code).
		Scan(&p.ID, &p.Code, &p.Name, &p.StateID, &p.Platform, &p.BaseURL, &p.IsActive,
			&p.LastScrapedAt, &p.TotalRecordsScraped, &p.Notes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get portal %s", code)
	}
	return p, nil
}

// CreatePortal inserts a source portal and sets its ID. Races with a
// concurrent creator resolve to the existing row.
func (s *Store) CreatePortal(ctx context.Context, p *model.SourcePortal) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO source_portals (code, name, state_id, platform, base_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET updated_at = now()
		RETURNING id`,
		p.Code, p.Name, p.StateID, p.Platform, p.BaseURL,
	).Scan(&p.ID)
	if err != nil {
		return eris.Wrapf(err, "store: create portal %s", p.Code)
	}
	return nil
}

// ListPortals returns all source portals ordered by code.
func (s *Store) ListPortals(ctx context.Context) ([]model.SourcePortal, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, code, name, state_id, platform, base_url, is_active,
			last_scraped_at, total_records_scraped, notes
		FROM source_portals ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list portals")
	}
	defer rows.Close()

	var portals []model.SourcePortal
	for rows.Next() {
		var p model.SourcePortal
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.StateID, &p.Platform, &p.BaseURL, &p.IsActive,
			&p.LastScrapedAt, &p.TotalRecordsScraped, &p.Notes); err != nil {
			return nil, eris.Wrap(err, "store: scan portal")
		}
		portals = append(portals, p)
	}
	return portals, rows.Err()
}

// RecordPortalScrape bumps a portal's scrape bookkeeping after a batch.
func (s *Store) RecordPortalScrape(ctx context.Context, portalID int, records int) error {
	_, err := s.q.Exec(ctx, `
		UPDATE source_portals
		SET last_scraped_at=now(), total_records_scraped=total_records_scraped+$2, updated_at=now()
		WHERE id=$1`, portalID, records)
	if err != nil {
		return eris.Wrapf(err, "store: record portal scrape %d", portalID)
	}
	return nil
}
