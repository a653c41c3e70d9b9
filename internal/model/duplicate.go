package model

import "time"

// DuplicateStatus is the review state of a candidate duplicate pair.
type DuplicateStatus string

const (
	DuplicateStatusPending  DuplicateStatus = "pending"
	DuplicateStatusMerged   DuplicateStatus = "merged"
	DuplicateStatusRejected DuplicateStatus = "rejected"
	DuplicateStatusReviewed DuplicateStatus = "reviewed"
)

// DetectionMethod identifies how a duplicate pair was found.
type DetectionMethod string

const (
	DetectionPermitNumber DetectionMethod = "permit_number"
	DetectionAddressHash  DetectionMethod = "address_hash"
	DetectionFuzzyAddress DetectionMethod = "fuzzy_address"
	DetectionManual       DetectionMethod = "manual"
)

// DuplicatePair is a candidate duplicate: two permits suspected to describe
// the same real-world record. Pairs are stored unordered with
// PermitID1 < PermitID2 enforced, unique per pair.
type DuplicatePair struct {
	ID              string          `json:"id"`
	PermitID1       string          `json:"permit_id_1"`
	PermitID2       string          `json:"permit_id_2"`
	DetectionMethod DetectionMethod `json:"detection_method"`
	ConfidenceScore float64         `json:"confidence_score"`
	MatchingFields  []string        `json:"matching_fields,omitempty"`
	Status          DuplicateStatus `json:"status"`
	CanonicalID     *string         `json:"canonical_id,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy      *string         `json:"resolved_by,omitempty"`
	ResolutionNotes *string         `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ResolutionAction is the reviewer's decision on a pending pair.
type ResolutionAction string

const (
	ResolutionMerge  ResolutionAction = "merge"
	ResolutionReject ResolutionAction = "reject"
	ResolutionReview ResolutionAction = "review"
)

// Other returns the pair member that is not the given permit ID, and
// whether the given ID belongs to the pair at all.
func (d *DuplicatePair) Other(permitID string) (string, bool) {
	switch permitID {
	case d.PermitID1:
		return d.PermitID2, true
	case d.PermitID2:
		return d.PermitID1, true
	default:
		return "", false
	}
}
