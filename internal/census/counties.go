// Package census loads county reference data from Census TIGER/Line
// shapefiles: FIPS codes, centroids, and bounding boxes used for
// coordinate plausibility checks during ingestion.
package census

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/db"
	"github.com/sells-group/permit-registry/internal/normalize"
	"github.com/sells-group/permit-registry/internal/store"
)

// countyColumns is the upsert column order for county rows.
var countyColumns = []string{
	"state_id", "name", "normalized_name", "fips_code",
	"centroid_lat", "centroid_lon", "min_lat", "min_lon", "max_lat", "max_lon",
}

// geoUpdateColumns is what a re-load may overwrite. The display name stays
// as first seen so resolver-created counties keep their scraped spelling.
var geoUpdateColumns = []string{
	"fips_code", "centroid_lat", "centroid_lon", "min_lat", "min_lon", "max_lat", "max_lon",
}

// LoadCounties reads a TIGER county shapefile and upserts every county
// keyed by (state_id, normalized_name). Returns the number of counties
// loaded. Counties in territories missing from the states table are
// skipped.
func LoadCounties(ctx context.Context, pool db.Pool, shpPath string) (int, error) {
	log := zap.L().With(zap.String("component", "census"))

	stateByFIPS, err := statesByFIPS(ctx, pool)
	if err != nil {
		return 0, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "census: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToUpper(name)] = i
	}
	for _, required := range []string{"STATEFP", "NAME", "GEOID"} {
		if _, ok := fieldIdx[required]; !ok {
			return 0, eris.Errorf("census: shapefile missing %s field", required)
		}
	}

	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
	}

	var rows [][]any
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		stateID, ok := stateByFIPS[attr("STATEFP")]
		if !ok {
			skipped++
			continue
		}

		name := attr("NAME")
		normName := normalize.County(name)
		if normName == "" {
			skipped++
			continue
		}

		minLat, minLon, maxLat, maxLon, ok := shapeBounds(shape)
		if !ok {
			skipped++
			continue
		}

		// TIGER publishes an interior point; fall back to the box center
		// when the attribute is absent or unparseable.
		centLat, latErr := strconv.ParseFloat(strings.TrimPrefix(attr("INTPTLAT"), "+"), 64)
		centLon, lonErr := strconv.ParseFloat(strings.TrimPrefix(attr("INTPTLON"), "+"), 64)
		if latErr != nil || lonErr != nil {
			centLat = (minLat + maxLat) / 2
			centLon = (minLon + maxLon) / 2
		}

		rows = append(rows, []any{
			stateID, name, normName, attr("GEOID"),
			centLat, centLon, minLat, minLon, maxLat, maxLon,
		})
	}

	if len(rows) == 0 {
		return 0, eris.New("census: shapefile produced no county rows")
	}

	n, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        "counties",
		Columns:      countyColumns,
		ConflictKeys: []string{"state_id", "normalized_name"},
		UpdateCols:   geoUpdateColumns,
	}, rows)
	if err != nil {
		return 0, err
	}

	log.Info("counties loaded",
		zap.Int64("upserted", n),
		zap.Int("skipped", skipped),
	)

	return int(n), nil
}

// shapeBounds computes the lat/lon bounding box of a county polygon.
func shapeBounds(shape shp.Shape) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	poly, isPoly := shape.(*shp.Polygon)
	if !isPoly || len(poly.Points) == 0 {
		return 0, 0, 0, 0, false
	}

	flat := make([]float64, 0, len(poly.Points)*2)
	for _, pt := range poly.Points {
		flat = append(flat, pt.X, pt.Y)
	}

	bounds := geom.NewMultiPointFlat(geom.XY, flat).Bounds()
	// Shapefile coordinates are (lon, lat).
	return bounds.Min(1), bounds.Min(0), bounds.Max(1), bounds.Max(0), true
}

// statesByFIPS maps state FIPS codes to state IDs.
func statesByFIPS(ctx context.Context, pool db.Pool) (map[string]int, error) {
	states, err := store.New(pool).ListStates(ctx)
	if err != nil {
		return nil, err
	}
	byFIPS := make(map[string]int, len(states))
	for _, st := range states {
		if st.FIPSCode != nil {
			byFIPS[*st.FIPSCode] = st.ID
		}
	}
	if len(byFIPS) == 0 {
		return nil, eris.New("census: states table has no FIPS codes; run migrations first")
	}
	return byFIPS, nil
}
