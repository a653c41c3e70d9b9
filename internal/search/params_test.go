package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(f float64) *float64 { return &f }

func TestNormalize_Defaults(t *testing.T) {
	p := &Params{}
	require.NoError(t, p.Normalize())

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Empty(t, p.SortBy)
}

func TestNormalize_QueryTooShort(t *testing.T) {
	p := &Params{Query: " a "}
	err := p.Normalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")
}

func TestNormalize_TrimsAndUppercases(t *testing.T) {
	p := &Params{
		Query:      "  main st  ",
		StateCodes: []string{" tx", "Fl "},
	}
	require.NoError(t, p.Normalize())

	assert.Equal(t, "main st", p.Query)
	assert.Equal(t, []string{"TX", "FL"}, p.StateCodes)
}

func TestNormalize_ClampsPagination(t *testing.T) {
	p := &Params{Page: -3, PageSize: 5000}
	require.NoError(t, p.Normalize())
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)

	p = &Params{PageSize: 0}
	require.NoError(t, p.Normalize())
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestNormalize_GeoFilter(t *testing.T) {
	p := &Params{Latitude: fp(30.27), Longitude: fp(-97.74), RadiusMiles: fp(5)}
	require.NoError(t, p.Normalize())

	// Radius without a center is invalid.
	p = &Params{RadiusMiles: fp(5)}
	require.Error(t, p.Normalize())

	// A center without a radius is too.
	p = &Params{Latitude: fp(30.27)}
	require.Error(t, p.Normalize())

	p = &Params{Latitude: fp(30.27), Longitude: fp(-97.74), RadiusMiles: fp(0)}
	require.Error(t, p.Normalize())

	p = &Params{Latitude: fp(30.27), Longitude: fp(-97.74), RadiusMiles: fp(250)}
	err := p.Normalize()
	require.Error(t, err)
	assert.Equal(t, "search: radius must be between 0.1 and 100 miles", err.Error())

	p = &Params{Latitude: fp(95), Longitude: fp(-97.74), RadiusMiles: fp(5)}
	require.Error(t, p.Normalize())
}

func TestNormalize_SortKeys(t *testing.T) {
	for _, key := range []string{SortRelevance, SortPermitDate, SortAddress, SortOwnerName} {
		p := &Params{SortBy: key}
		require.NoError(t, p.Normalize())
		assert.Equal(t, key, p.SortBy)
	}

	p := &Params{SortBy: "shoe_size", SortOrder: "ASC"}
	require.NoError(t, p.Normalize())
	assert.Empty(t, p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)

	p = &Params{SortOrder: "sideways"}
	require.NoError(t, p.Normalize())
	assert.Equal(t, "desc", p.SortOrder)
}
