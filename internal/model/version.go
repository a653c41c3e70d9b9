package model

import "time"

// ChangeSource identifies what produced a permit mutation.
type ChangeSource string

const (
	ChangeSourceScraper ChangeSource = "scraper"
	ChangeSourceManual  ChangeSource = "manual"
	ChangeSourceMerge   ChangeSource = "merge"
	ChangeSourceAPI     ChangeSource = "api"
)

// PermitVersion is an immutable audit snapshot written before each permit
// update. Version matches the permit's version at snapshot time and is
// unique per (permit_id, version). Never mutated or deleted.
type PermitVersion struct {
	ID             string       `json:"id"`
	PermitID       string       `json:"permit_id"`
	Version        int          `json:"version"`
	PermitData     []byte       `json:"permit_data"`
	ChangedFields  []string     `json:"changed_fields,omitempty"`
	ChangeSource   ChangeSource `json:"change_source"`
	ChangeReason   *string      `json:"change_reason,omitempty"`
	SourcePortalID *int         `json:"source_portal_id,omitempty"`
	ScrapedAt      *time.Time   `json:"scraped_at,omitempty"`
	CreatedBy      string       `json:"created_by"`
	CreatedAt      time.Time    `json:"created_at"`
}
