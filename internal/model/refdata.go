package model

import "time"

// State is a pre-seeded US state or territory. States are never
// auto-created; unknown codes are resolution errors.
type State struct {
	ID       int     `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	FIPSCode *string `json:"fips_code,omitempty"`
	Region   *string `json:"region,omitempty"`
	IsActive bool    `json:"is_active"`
}

// County is a county within a state, keyed by (state_id, normalized_name)
// and auto-created by the resolver on first sight. Centroid and bounding
// box come from Census TIGER data when loaded.
type County struct {
	ID             int      `json:"id"`
	StateID        int      `json:"state_id"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	FIPSCode       *string  `json:"fips_code,omitempty"`
	Population     *int     `json:"population,omitempty"`
	CentroidLat    *float64 `json:"centroid_lat,omitempty"`
	CentroidLon    *float64 `json:"centroid_lon,omitempty"`
	MinLat         *float64 `json:"min_lat,omitempty"`
	MinLon         *float64 `json:"min_lon,omitempty"`
	MaxLat         *float64 `json:"max_lat,omitempty"`
	MaxLon         *float64 `json:"max_lon,omitempty"`
}

// SystemType is a septic system classification. The UNKNOWN sentinel
// absorbs raw strings no reference type matches.
type SystemType struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SystemTypeUnknownCode is the sentinel code for unclassifiable systems.
const SystemTypeUnknownCode = "UNKNOWN"

// SourcePortal is a government data source permits are scraped from.
type SourcePortal struct {
	ID                  int        `json:"id"`
	Code                string     `json:"code"`
	Name                string     `json:"name"`
	StateID             *int       `json:"state_id,omitempty"`
	Platform            *string    `json:"platform,omitempty"`
	BaseURL             *string    `json:"base_url,omitempty"`
	IsActive            bool       `json:"is_active"`
	LastScrapedAt       *time.Time `json:"last_scraped_at,omitempty"`
	TotalRecordsScraped int64      `json:"total_records_scraped"`
	Notes               *string    `json:"notes,omitempty"`
}
