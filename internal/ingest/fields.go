package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/sells-group/permit-registry/internal/model"
)

// contentFields is the single source of truth for which permit fields
// constitute record content. Both the record hash and the change diff run
// over exactly this list; the skip-if-unchanged idempotence check breaks
// if they ever diverge.
var contentFields = []string{
	"permit_number",
	"address",
	"city",
	"zip_code",
	"parcel_number",
	"latitude",
	"longitude",
	"owner_name",
	"applicant_name",
	"contractor_name",
	"install_date",
	"permit_date",
	"expiration_date",
	"system_type_raw",
	"tank_size_gallons",
	"drainfield_size_sqft",
	"bedrooms",
	"daily_flow_gpd",
	"pdf_url",
	"permit_url",
}

const dateLayout = "2006-01-02"

// contentValue extracts one content field from a permit. Dates reduce to
// their date component so wall-clock noise never shows up as a change.
func contentValue(p *model.Permit, field string) any {
	switch field {
	case "permit_number":
		return strOrNil(p.PermitNumber)
	case "address":
		return strOrNil(p.Address)
	case "city":
		return strOrNil(p.City)
	case "zip_code":
		return strOrNil(p.ZipCode)
	case "parcel_number":
		return strOrNil(p.ParcelNumber)
	case "latitude":
		return floatOrNil(p.Latitude)
	case "longitude":
		return floatOrNil(p.Longitude)
	case "owner_name":
		return strOrNil(p.OwnerName)
	case "applicant_name":
		return strOrNil(p.ApplicantName)
	case "contractor_name":
		return strOrNil(p.ContractorName)
	case "install_date":
		return dateOrNil(p.InstallDate)
	case "permit_date":
		return dateOrNil(p.PermitDate)
	case "expiration_date":
		return dateOrNil(p.ExpirationDate)
	case "system_type_raw":
		return strOrNil(p.SystemTypeRaw)
	case "tank_size_gallons":
		return intOrNil(p.TankSizeGallons)
	case "drainfield_size_sqft":
		return intOrNil(p.DrainfieldSizeSqft)
	case "bedrooms":
		return intOrNil(p.Bedrooms)
	case "daily_flow_gpd":
		return intOrNil(p.DailyFlowGPD)
	case "pdf_url":
		return strOrNil(p.PDFURL)
	case "permit_url":
		return strOrNil(p.PermitURL)
	default:
		return nil
	}
}

// contentMap projects a permit onto the shared field list.
func contentMap(p *model.Permit) map[string]any {
	m := make(map[string]any, len(contentFields))
	for _, f := range contentFields {
		m[f] = contentValue(p, f)
	}
	return m
}

// RecordHash fingerprints a permit's content: canonical JSON (sorted keys)
// over the shared field list, SHA-256 hex. Metadata, identity, and derived
// columns never participate, so re-scraping an unchanged page reproduces
// the stored hash exactly.
func RecordHash(p *model.Permit) string {
	// encoding/json serializes map keys in sorted order, which makes the
	// encoding canonical.
	data, err := json.Marshal(contentMap(p))
	if err != nil {
		// Content values are strings, numbers, and nils only.
		panic("ingest: content map not marshalable: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DiffFields returns the sorted names of content fields whose incoming
// value is non-null and differs from the stored one. Null incoming values
// never erase data, so they never count as changes either.
func DiffFields(old, incoming *model.Permit) []string {
	var changed []string
	for _, f := range contentFields {
		newVal := contentValue(incoming, f)
		if newVal == nil {
			continue
		}
		if contentValue(old, f) != newVal {
			changed = append(changed, f)
		}
	}
	sort.Strings(changed)
	return changed
}

// Snapshot serializes a permit's pre-update state for a version row: the
// content fields plus the derived columns an auditor needs to reconstruct
// the record as it stood.
func Snapshot(p *model.Permit) ([]byte, error) {
	m := contentMap(p)
	m["id"] = p.ID
	m["state_id"] = p.StateID
	m["county_id"] = intOrNil(p.CountyID)
	m["address_normalized"] = strOrNil(p.AddressNormalized)
	m["address_hash"] = strOrNil(p.AddressHash)
	m["owner_name_normalized"] = strOrNil(p.OwnerNameNormalized)
	m["system_type_id"] = intOrNil(p.SystemTypeID)
	m["source_portal_code"] = strOrNil(p.SourcePortalCode)
	m["data_quality_score"] = intOrNil(p.DataQualityScore)
	m["record_hash"] = strOrNil(p.RecordHash)
	m["version"] = p.Version
	return json.Marshal(m)
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
