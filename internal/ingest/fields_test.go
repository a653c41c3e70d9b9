package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/permit-registry/internal/model"
)

func strp(s string) *string     { return &s }
func intp(n int) *int           { return &n }
func fp(f float64) *float64     { return &f }
func tp(t time.Time) *time.Time { return &t }

func TestRecordHash_Deterministic(t *testing.T) {
	p := &model.Permit{
		PermitNumber: strp("TX-100"),
		Address:      strp("123 Main St"),
		Latitude:     fp(30.27),
		PermitDate:   tp(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, RecordHash(p), RecordHash(p))
	assert.Len(t, RecordHash(p), 64)
}

func TestRecordHash_IgnoresMetadata(t *testing.T) {
	a := &model.Permit{PermitNumber: strp("TX-100"), Address: strp("123 Main St")}
	b := &model.Permit{PermitNumber: strp("TX-100"), Address: strp("123 Main St")}

	// Identity, versioning, and derived columns must never shift the hash.
	b.ID = "some-uuid"
	b.Version = 7
	b.StateID = 44
	b.AddressNormalized = strp("123 MAIN ST")
	b.AddressHash = strp("deadbeef")
	b.DataQualityScore = intp(80)
	b.ScrapedAt = tp(time.Now())
	b.CreatedAt = time.Now()

	assert.Equal(t, RecordHash(a), RecordHash(b))
}

func TestRecordHash_DateComponentOnly(t *testing.T) {
	a := &model.Permit{PermitDate: tp(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))}
	b := &model.Permit{PermitDate: tp(time.Date(2020, 6, 1, 17, 45, 12, 0, time.UTC))}
	assert.Equal(t, RecordHash(a), RecordHash(b))
}

func TestRecordHash_ContentChangeShiftsHash(t *testing.T) {
	a := &model.Permit{OwnerName: strp("DOE JOHN")}
	b := &model.Permit{OwnerName: strp("DOE JANE")}
	assert.NotEqual(t, RecordHash(a), RecordHash(b))
}

func TestDiffFields_ReportsChanges(t *testing.T) {
	old := &model.Permit{
		PermitNumber: strp("TX-100"),
		City:         strp("AUSTIN"),
		OwnerName:    strp("DOE JOHN"),
	}
	incoming := &model.Permit{
		PermitNumber: strp("TX-100"),
		City:         strp("ROUND ROCK"),
		OwnerName:    strp("DOE JANE"),
		ZipCode:      strp("78664"),
	}

	assert.Equal(t, []string{"city", "owner_name", "zip_code"}, DiffFields(old, incoming))
}

func TestDiffFields_NullNeverCounts(t *testing.T) {
	old := &model.Permit{
		PermitNumber: strp("TX-100"),
		City:         strp("AUSTIN"),
	}
	// Incoming nulls would erase nothing, so they are not changes.
	incoming := &model.Permit{PermitNumber: strp("TX-100")}

	assert.Empty(t, DiffFields(old, incoming))
}

func TestDiffFields_Identical(t *testing.T) {
	p := &model.Permit{
		PermitNumber: strp("TX-100"),
		Latitude:     fp(30.27),
		Bedrooms:     intp(3),
	}
	assert.Empty(t, DiffFields(p, p))
}

func TestSnapshot_CarriesContentAndDerived(t *testing.T) {
	p := &model.Permit{
		ID:                "p-1",
		PermitNumber:      strp("TX-100"),
		StateID:           44,
		AddressNormalized: strp("123 MAIN ST"),
		RecordHash:        strp("cafe"),
		Version:           3,
	}

	data, err := Snapshot(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "p-1", m["id"])
	assert.Equal(t, "TX-100", m["permit_number"])
	assert.Equal(t, "123 MAIN ST", m["address_normalized"])
	assert.Equal(t, "cafe", m["record_hash"])
	assert.Equal(t, float64(3), m["version"])
	assert.Nil(t, m["owner_name"])
}
