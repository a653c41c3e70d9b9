package store

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

// anyArgs builds n placeholder matchers for statements with long bind lists.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

// permitColumnNames mirrors permitColumns for building mock result rows.
var permitColumnNames = []string{
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
}

// permitRowValues builds a row in permitColumns order with mostly-null
// optional fields.
func permitRowValues(id, permitNumber string, stateID, version int) []any {
	now := time.Now()
	return []any{
		id, strp(permitNumber), stateID, nil,
		strp("123 MAIN ST"), strp("123 MAIN ST"), strp("abc123"), strp("AUSTIN"), strp("78701"),
		nil, nil, nil,
		strp("DOE JOHN"), strp("DOE JOHN"), nil, nil,
		nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil,
		nil, nil, nil, nil,
		true, intp(55), nil, version, strp("hash-" + id),
		now, now,
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}
