// Package model holds the permit-registry domain types shared across
// ingestion, search, and the API surface.
package model

import (
	"encoding/json"
	"time"
)

// Permit is one canonical septic-permit record. Nullable columns map to
// pointer fields; absent values stay nil end to end.
type Permit struct {
	ID                  string          `json:"id"`
	PermitNumber        *string         `json:"permit_number,omitempty"`
	StateID             int             `json:"state_id"`
	CountyID            *int            `json:"county_id,omitempty"`
	Address             *string         `json:"address,omitempty"`
	AddressNormalized   *string         `json:"address_normalized,omitempty"`
	AddressHash         *string         `json:"address_hash,omitempty"`
	City                *string         `json:"city,omitempty"`
	ZipCode             *string         `json:"zip_code,omitempty"`
	ParcelNumber        *string         `json:"parcel_number,omitempty"`
	Latitude            *float64        `json:"latitude,omitempty"`
	Longitude           *float64        `json:"longitude,omitempty"`
	OwnerName           *string         `json:"owner_name,omitempty"`
	OwnerNameNormalized *string         `json:"owner_name_normalized,omitempty"`
	ApplicantName       *string         `json:"applicant_name,omitempty"`
	ContractorName      *string         `json:"contractor_name,omitempty"`
	InstallDate         *time.Time      `json:"install_date,omitempty"`
	PermitDate          *time.Time      `json:"permit_date,omitempty"`
	ExpirationDate      *time.Time      `json:"expiration_date,omitempty"`
	SystemTypeID        *int            `json:"system_type_id,omitempty"`
	SystemTypeRaw       *string         `json:"system_type_raw,omitempty"`
	TankSizeGallons     *int            `json:"tank_size_gallons,omitempty"`
	DrainfieldSizeSqft  *int            `json:"drainfield_size_sqft,omitempty"`
	Bedrooms            *int            `json:"bedrooms,omitempty"`
	DailyFlowGPD        *int            `json:"daily_flow_gpd,omitempty"`
	PDFURL              *string         `json:"pdf_url,omitempty"`
	PermitURL           *string         `json:"permit_url,omitempty"`
	SourcePortalID      *int            `json:"source_portal_id,omitempty"`
	SourcePortalCode    *string         `json:"source_portal_code,omitempty"`
	ScrapedAt           *time.Time      `json:"scraped_at,omitempty"`
	RawData             json.RawMessage `json:"raw_data,omitempty"`
	IsActive            bool            `json:"is_active"`
	DataQualityScore    *int            `json:"data_quality_score,omitempty"`
	DuplicateOfID       *string         `json:"duplicate_of_id,omitempty"`
	Version             int             `json:"version"`
	RecordHash          *string         `json:"record_hash,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// StatusKind classifies a permit's authority.
type StatusKind string

const (
	// StatusActive marks the authoritative record for its canonical key.
	StatusActive StatusKind = "active"
	// StatusDuplicate marks a record deactivated by a merge; CanonicalID
	// points at the surviving row.
	StatusDuplicate StatusKind = "duplicate"
	// StatusInactive marks a record deactivated for any other reason.
	StatusInactive StatusKind = "inactive"
)

// Status is the tagged authority state derived from is_active and
// duplicate_of_id, so "is this record authoritative" is one check.
type Status struct {
	Kind        StatusKind `json:"kind"`
	CanonicalID string     `json:"canonical_id,omitempty"`
}

// Status reports the permit's authority state.
func (p *Permit) Status() Status {
	switch {
	case p.IsActive:
		return Status{Kind: StatusActive}
	case p.DuplicateOfID != nil && *p.DuplicateOfID != "":
		return Status{Kind: StatusDuplicate, CanonicalID: *p.DuplicateOfID}
	default:
		return Status{Kind: StatusInactive}
	}
}

// Authoritative reports whether this row is the record of truth for its key.
func (p *Permit) Authoritative() bool {
	return p.Status().Kind == StatusActive
}

// HasProperty reports whether the permit is tied to a locatable property,
// either by parcel number or by coordinates.
func (p *Permit) HasProperty() bool {
	return (p.ParcelNumber != nil && *p.ParcelNumber != "") ||
		(p.Latitude != nil && p.Longitude != nil)
}

// PermitRecord is one raw scraped record as submitted for ingestion,
// before normalization and reference resolution.
type PermitRecord struct {
	PermitNumber       *string         `json:"permit_number,omitempty"`
	StateCode          string          `json:"state_code"`
	CountyName         *string         `json:"county_name,omitempty"`
	Address            *string         `json:"address,omitempty"`
	City               *string         `json:"city,omitempty"`
	ZipCode            *string         `json:"zip_code,omitempty"`
	ParcelNumber       *string         `json:"parcel_number,omitempty"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
	OwnerName          *string         `json:"owner_name,omitempty"`
	ApplicantName      *string         `json:"applicant_name,omitempty"`
	ContractorName     *string         `json:"contractor_name,omitempty"`
	InstallDate        *string         `json:"install_date,omitempty"`
	PermitDate         *string         `json:"permit_date,omitempty"`
	ExpirationDate     *string         `json:"expiration_date,omitempty"`
	SystemType         *string         `json:"system_type,omitempty"`
	TankSizeGallons    *int            `json:"tank_size_gallons,omitempty"`
	DrainfieldSizeSqft *int            `json:"drainfield_size_sqft,omitempty"`
	Bedrooms           *int            `json:"bedrooms,omitempty"`
	DailyFlowGPD       *int            `json:"daily_flow_gpd,omitempty"`
	PDFURL             *string         `json:"pdf_url,omitempty"`
	PermitURL          *string         `json:"permit_url,omitempty"`
	ScrapedAt          *string         `json:"scraped_at,omitempty"`
	RawData            json.RawMessage `json:"raw_data,omitempty"`
}
