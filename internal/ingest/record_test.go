package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/permit-registry/internal/model"
)

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2020-06-01",
		"06/01/2020",
		"6/1/2020",
		"2020/06/01",
		"Jun 1, 2020",
		"June 1, 2020",
	} {
		got, err := ParseDate(&raw)
		require.NoError(t, err, raw)
		require.NotNil(t, got, raw)
		assert.True(t, want.Equal(*got), "%s parsed to %v", raw, got)
	}
}

func TestParseDate_BlankIsNil(t *testing.T) {
	got, err := ParseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "   "
	got, err = ParseDate(&blank)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseDate_Unparseable(t *testing.T) {
	bad := "sometime last spring"
	_, err := ParseDate(&bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable date")
}

func TestBuildCandidate_NormalizesAndHashes(t *testing.T) {
	rec := &model.PermitRecord{
		StateCode:  "TX",
		Address:    strp("  123 North Main Street, Apt. 4B  "),
		OwnerName:  strp("John Doe"),
		PermitDate: strp("06/01/2020"),
	}

	now := time.Now().UTC()
	p, err := buildCandidate(rec, 44, "TX", intp(12), "TRAVIS", now)
	require.NoError(t, err)

	assert.Equal(t, "123 North Main Street, Apt. 4B", *p.Address)
	require.NotNil(t, p.AddressNormalized)
	assert.Equal(t, "123 N MAIN ST APT 4B", *p.AddressNormalized)
	require.NotNil(t, p.AddressHash)
	assert.Len(t, *p.AddressHash, 64)
	require.NotNil(t, p.OwnerNameNormalized)
	require.NotNil(t, p.PermitDate)
	assert.Equal(t, 2020, p.PermitDate.Year())
	assert.True(t, p.IsActive)
	assert.Equal(t, now, *p.ScrapedAt)
}

func TestBuildCandidate_BadDateFails(t *testing.T) {
	rec := &model.PermitRecord{StateCode: "TX", PermitDate: strp("garbage")}
	_, err := buildCandidate(rec, 44, "TX", nil, "", time.Now())
	require.Error(t, err)
}

func TestBuildCandidate_AddressHashUsesNormalizedCounty(t *testing.T) {
	rec := &model.PermitRecord{StateCode: "TX", Address: strp("123 Main St")}
	now := time.Now()

	a, err := buildCandidate(rec, 44, "TX", intp(12), "TRAVIS", now)
	require.NoError(t, err)
	b, err := buildCandidate(rec, 44, "TX", intp(13), "WILLIAMSON", now)
	require.NoError(t, err)

	assert.NotEqual(t, *a.AddressHash, *b.AddressHash)
}

func TestApplyUpdate_NullsNeverErase(t *testing.T) {
	stored := &model.Permit{
		PermitNumber: strp("TX-100"),
		City:         strp("AUSTIN"),
		OwnerName:    strp("DOE JOHN"),
		Bedrooms:     intp(3),
	}
	candidate := &model.Permit{
		City: strp("ROUND ROCK"),
	}

	applyUpdate(stored, candidate)

	assert.Equal(t, "TX-100", *stored.PermitNumber)
	assert.Equal(t, "ROUND ROCK", *stored.City)
	assert.Equal(t, "DOE JOHN", *stored.OwnerName)
	assert.Equal(t, 3, *stored.Bedrooms)
}

func TestApplyUpdate_AddressCarriesDerivedFields(t *testing.T) {
	stored := &model.Permit{
		Address:           strp("123 Main St"),
		AddressNormalized: strp("123 MAIN ST"),
		AddressHash:       strp("old-hash"),
	}
	candidate := &model.Permit{
		Address:           strp("456 Oak Ave"),
		AddressNormalized: strp("456 OAK AVE"),
		AddressHash:       strp("new-hash"),
	}

	applyUpdate(stored, candidate)

	assert.Equal(t, "456 Oak Ave", *stored.Address)
	assert.Equal(t, "456 OAK AVE", *stored.AddressNormalized)
	assert.Equal(t, "new-hash", *stored.AddressHash)
}
