package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalized(t *testing.T, p *Params) *Params {
	t.Helper()
	require.NoError(t, p.Normalize())
	return p
}

func TestBuildQueries_DefaultActiveOnly(t *testing.T) {
	p := normalized(t, &Params{})
	resultSQL, countSQL, args := buildQueries(p)

	assert.Contains(t, countSQL, "p.is_active")
	assert.Contains(t, resultSQL, "p.is_active")
	// Only the pagination placeholders bind.
	require.Len(t, args, 2)
	assert.Equal(t, DefaultPageSize, args[0])
	assert.Equal(t, 0, args[1])
}

func TestBuildQueries_PaginationArgsLast(t *testing.T) {
	p := normalized(t, &Params{
		Query:      "main st",
		StateCodes: []string{"tx"},
		Page:       3,
		PageSize:   25,
	})
	_, _, args := buildQueries(p)

	// The count query reuses args[:len-2]; the limit and offset must be
	// the final two bindings.
	require.GreaterOrEqual(t, len(args), 4)
	assert.Equal(t, 25, args[len(args)-2])
	assert.Equal(t, 50, args[len(args)-1])
}

func TestBuildQueries_Filters(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	p := normalized(t, &Params{
		StateCodes:     []string{"TX", "FL"},
		CountyIDs:      []int{12},
		City:           "Austin",
		ZipCode:        "78701",
		SystemTypeIDs:  []int{2},
		PermitDateFrom: &from,
		PermitDateTo:   &to,
	})
	resultSQL, countSQL, args := buildQueries(p)

	for _, frag := range []string{
		"s.code = ANY(",
		"p.county_id = ANY(",
		"p.city ILIKE",
		"p.zip_code =",
		"p.system_type_id = ANY(",
		"p.permit_date >=",
		"p.permit_date <=",
	} {
		assert.Contains(t, countSQL, frag)
		assert.Contains(t, resultSQL, frag)
	}
	assert.Equal(t, []string{"TX", "FL"}, args[0])
	assert.Equal(t, []int{12}, args[1])
	assert.Equal(t, "Austin", args[2])
}

func TestBuildQueries_QueryAddsRanking(t *testing.T) {
	p := normalized(t, &Params{Query: "smith"})
	resultSQL, countSQL, _ := buildQueries(p)

	assert.Contains(t, resultSQL, "plainto_tsquery('english'")
	assert.Contains(t, resultSQL, "AS relevance")
	assert.Contains(t, resultSQL, "AS keyword_rank")
	assert.Contains(t, resultSQL, "AS address_similarity")
	// The count query filters on the match but never ranks.
	assert.Contains(t, countSQL, "p.search_vector @@")
	assert.NotContains(t, countSQL, "AS relevance")
}

func TestBuildQueries_GeoBoundingBox(t *testing.T) {
	p := normalized(t, &Params{
		Latitude:    fp(30.0),
		Longitude:   fp(-97.0),
		RadiusMiles: fp(6.9),
	})
	resultSQL, _, args := buildQueries(p)

	assert.Contains(t, resultSQL, "p.latitude BETWEEN")
	assert.Contains(t, resultSQL, "p.longitude BETWEEN")

	// 6.9 miles is 0.1 degrees of latitude.
	latLo, ok := args[0].(float64)
	require.True(t, ok)
	latHi := args[1].(float64)
	assert.InDelta(t, 29.9, latLo, 1e-9)
	assert.InDelta(t, 30.1, latHi, 1e-9)

	// Longitude degrees shrink by cos(lat), so the window is wider.
	lonLo := args[2].(float64)
	lonHi := args[3].(float64)
	assert.Greater(t, lonHi-lonLo, latHi-latLo)
	assert.InDelta(t, -97.0, (lonLo+lonHi)/2, 1e-9)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		p    *Params
		want string
	}{
		{"default no query", &Params{}, "p.created_at DESC, p.id"},
		{"default with query", &Params{Query: "smith"}, "relevance DESC, p.created_at DESC, p.id"},
		{"relevance without query", &Params{SortBy: SortRelevance}, "p.created_at DESC, p.id"},
		{"relevance asc", &Params{SortBy: SortRelevance, SortOrder: "asc", Query: "smith"}, "relevance ASC, p.created_at DESC, p.id"},
		{"permit date", &Params{SortBy: SortPermitDate}, "p.permit_date DESC NULLS LAST, p.created_at DESC, p.id"},
		{"address asc", &Params{SortBy: SortAddress, SortOrder: "asc"}, "p.address_normalized ASC NULLS LAST, p.created_at DESC, p.id"},
		{"owner name", &Params{SortBy: SortOwnerName}, "p.owner_name DESC NULLS LAST, p.created_at DESC, p.id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.p.Normalize())
			assert.Equal(t, tt.want, orderClause(tt.p))
		})
	}
}

func TestOrderClause_AlwaysBreaksTiesOnID(t *testing.T) {
	for _, key := range []string{"", SortRelevance, SortPermitDate, SortAddress, SortOwnerName} {
		p := normalized(t, &Params{SortBy: key, Query: "main"})
		assert.True(t, strings.HasSuffix(orderClause(p), "p.id"), "sort %q", key)
	}
}
