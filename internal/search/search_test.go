package search

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// resultColumnNames mirrors the result query's select list: the qualified
// permit columns plus the state code and the three ranking terms.
var resultColumnNames = []string{
	"id", "permit_number", "state_id", "county_id",
	"address", "address_normalized", "address_hash", "city", "zip_code",
	"parcel_number", "latitude", "longitude",
	"owner_name", "owner_name_normalized", "applicant_name", "contractor_name",
	"install_date", "permit_date", "expiration_date",
	"system_type_id", "system_type_raw", "tank_size_gallons", "drainfield_size_sqft", "bedrooms", "daily_flow_gpd",
	"pdf_url", "permit_url",
	"source_portal_id", "source_portal_code", "scraped_at", "raw_data",
	"is_active", "data_quality_score", "duplicate_of_id", "version", "record_hash",
	"created_at", "updated_at",
	"code", "relevance", "keyword_rank", "address_similarity",
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func resultRowValues(id, address string, relevance float64) []any {
	now := time.Now()
	return []any{
		id, strp("TX-100"), 44, nil,
		strp(address), strp(address), strp("abc123"), strp("AUSTIN"), strp("78701"),
		nil, nil, nil,
		strp("DOE JOHN"), strp("DOE JOHN"), nil, nil,
		nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil,
		nil, nil, nil, nil,
		true, intp(55), nil, 1, strp("hash-" + id),
		now, now,
		"TX", relevance, 0.6, 0.2,
	}
}

func TestExecute_QueryWithStateFacets(t *testing.T) {
	mock := newMockPool(t)
	p := normalized(t, &Params{Query: "main"})

	mock.ExpectQuery(`SELECT count\(\*\) FROM septic_permits p JOIN states s`).
		WithArgs("main").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(41))

	mock.ExpectQuery(`SELECT p\.id, p\.permit_number`).
		WithArgs("main", DefaultPageSize, 0).
		WillReturnRows(pgxmock.NewRows(resultColumnNames).
			AddRow(resultRowValues("p-1", "123 MAIN ST", 0.9)...).
			AddRow(resultRowValues("p-2", "500 OAK AVE", 0.4)...))

	mock.ExpectQuery(`SELECT s\.code, s\.name, count\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"code", "name", "count"}).
			AddRow("TX", "Texas", 30).
			AddRow("FL", "Florida", 11))

	res, err := Execute(context.Background(), mock, p)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 41, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPageSize, res.PageSize)
	assert.Equal(t, 3, res.TotalPages)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "p-1", res.Items[0].Permit.ID)
	assert.Equal(t, "TX", res.Items[0].StateCode)
	assert.Equal(t, 0.9, res.Items[0].Score)
	assert.Equal(t, 0.6, res.Items[0].KeywordScore)
	assert.Equal(t, "123 MAIN ST", res.Items[0].Highlights["address"])
	// No query term in the second address, so no highlight.
	assert.Empty(t, res.Items[1].Highlights)

	require.Len(t, res.StateFacets, 2)
	assert.Equal(t, Facet{Key: "TX", Label: "Texas", Count: 30}, res.StateFacets[0])
	assert.Empty(t, res.CountyFacets)
}

func TestExecute_StateFilterGetsCountyFacets(t *testing.T) {
	mock := newMockPool(t)
	p := normalized(t, &Params{StateCodes: []string{"TX"}})

	mock.ExpectQuery(`SELECT count\(\*\) FROM septic_permits p JOIN states s`).
		WithArgs([]string{"TX"}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT p\.id, p\.permit_number`).
		WithArgs([]string{"TX"}, DefaultPageSize, 0).
		WillReturnRows(pgxmock.NewRows(resultColumnNames))

	mock.ExpectQuery(`JOIN counties c ON c\.id = p\.county_id`).
		WithArgs([]string{"TX"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "count"}).
			AddRow("12", "Travis County", 18))

	res, err := Execute(context.Background(), mock, p)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
	assert.Empty(t, res.StateFacets)
	require.Len(t, res.CountyFacets, 1)
	assert.Equal(t, Facet{Key: "12", Label: "Travis County", Count: 18}, res.CountyFacets[0])
}

func TestExecute_CountyFilterSkipsFacets(t *testing.T) {
	mock := newMockPool(t)
	p := normalized(t, &Params{StateCodes: []string{"TX"}, CountyIDs: []int{12}})

	mock.ExpectQuery(`SELECT count\(\*\) FROM septic_permits p JOIN states s`).
		WithArgs([]string{"TX"}, []int{12}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT p\.id, p\.permit_number`).
		WithArgs([]string{"TX"}, []int{12}, DefaultPageSize, 0).
		WillReturnRows(pgxmock.NewRows(resultColumnNames).
			AddRow(resultRowValues("p-1", "123 MAIN ST", 0)...))

	res, err := Execute(context.Background(), mock, p)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Empty(t, res.StateFacets)
	assert.Empty(t, res.CountyFacets)
}

func TestExecute_CountError(t *testing.T) {
	mock := newMockPool(t)
	p := normalized(t, &Params{})

	mock.ExpectQuery(`SELECT count\(\*\)`).WillReturnError(assert.AnError)

	_, err := Execute(context.Background(), mock, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search: count")
}
