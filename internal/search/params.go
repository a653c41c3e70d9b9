package search

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Pagination and geo bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinQueryLength  = 2
	MinRadiusMiles  = 0.1
	MaxRadiusMiles  = 100.0
)

// Sort keys accepted by the search engine. Anything else falls back to
// recency order.
const (
	SortRelevance  = "relevance"
	SortPermitDate = "permit_date"
	SortAddress    = "address"
	SortOwnerName  = "owner_name"
)

// Params is one search request after HTTP decoding.
type Params struct {
	Query           string     `json:"query,omitempty"`
	StateCodes      []string   `json:"state_codes,omitempty"`
	CountyIDs       []int      `json:"county_ids,omitempty"`
	City            string     `json:"city,omitempty"`
	ZipCode         string     `json:"zip_code,omitempty"`
	SystemTypeIDs   []int      `json:"system_type_ids,omitempty"`
	PermitDateFrom  *time.Time `json:"permit_date_from,omitempty"`
	PermitDateTo    *time.Time `json:"permit_date_to,omitempty"`
	InstallDateFrom *time.Time `json:"install_date_from,omitempty"`
	InstallDateTo   *time.Time `json:"install_date_to,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	RadiusMiles     *float64   `json:"radius_miles,omitempty"`
	Page            int        `json:"page,omitempty"`
	PageSize        int        `json:"page_size,omitempty"`
	SortBy          string     `json:"sort_by,omitempty"`
	SortOrder       string     `json:"sort_order,omitempty"`
	IncludeInactive bool       `json:"include_inactive,omitempty"`
}

// Normalize validates the request and fills defaults. Invalid input is an
// error with no side effects; out-of-range pagination is clamped.
func (p *Params) Normalize() error {
	p.Query = strings.TrimSpace(p.Query)
	if p.Query != "" && len(p.Query) < MinQueryLength {
		return eris.Errorf("search: query must be at least %d characters", MinQueryLength)
	}

	for i, code := range p.StateCodes {
		p.StateCodes[i] = strings.ToUpper(strings.TrimSpace(code))
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	if p.RadiusMiles != nil {
		if p.Latitude == nil || p.Longitude == nil {
			return eris.New("search: radius requires latitude and longitude")
		}
		if *p.RadiusMiles < MinRadiusMiles || *p.RadiusMiles > MaxRadiusMiles {
			return eris.Errorf("search: radius must be between %g and %g miles", MinRadiusMiles, MaxRadiusMiles)
		}
		if *p.Latitude < -90 || *p.Latitude > 90 || *p.Longitude < -180 || *p.Longitude > 180 {
			return eris.New("search: invalid geo center")
		}
	} else if p.Latitude != nil || p.Longitude != nil {
		return eris.New("search: geo filter requires latitude, longitude, and radius_miles")
	}

	switch p.SortBy {
	case SortRelevance, SortPermitDate, SortAddress, SortOwnerName:
	default:
		// Unrecognized sort keys fall back to recency order.
		p.SortBy = ""
	}

	p.SortOrder = strings.ToLower(p.SortOrder)
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}

	return nil
}
