package ingest

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/normalize"
)

// dateLayouts are tried in order when parsing scraped date strings.
// Portals disagree on format; these cover everything seen in practice.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a scraped date string against the known layouts.
// Blank input returns nil; an unparseable value is an input error.
func ParseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, eris.Errorf("ingest: unparseable date %q", s)
}

// parseTimestamp parses a scraped_at value, falling back to now.
func parseTimestamp(raw *string, now time.Time) (time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return now, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return *t, nil
}

// buildCandidate assembles the would-be permit row from a raw record:
// normalized address and owner, address hash, parsed dates. Reference IDs
// are filled by the caller after resolution.
func buildCandidate(rec *model.PermitRecord, stateID int, stateCode string, countyID *int, countyNorm string, now time.Time) (*model.Permit, error) {
	installDate, err := ParseDate(rec.InstallDate)
	if err != nil {
		return nil, err
	}
	permitDate, err := ParseDate(rec.PermitDate)
	if err != nil {
		return nil, err
	}
	expirationDate, err := ParseDate(rec.ExpirationDate)
	if err != nil {
		return nil, err
	}
	scrapedAt, err := parseTimestamp(rec.ScrapedAt, now)
	if err != nil {
		return nil, err
	}

	p := &model.Permit{
		PermitNumber:       trimmed(rec.PermitNumber),
		StateID:            stateID,
		CountyID:           countyID,
		Address:            trimmed(rec.Address),
		City:               trimmed(rec.City),
		ZipCode:            trimmed(rec.ZipCode),
		ParcelNumber:       trimmed(rec.ParcelNumber),
		Latitude:           rec.Latitude,
		Longitude:          rec.Longitude,
		OwnerName:          trimmed(rec.OwnerName),
		ApplicantName:      trimmed(rec.ApplicantName),
		ContractorName:     trimmed(rec.ContractorName),
		InstallDate:        installDate,
		PermitDate:         permitDate,
		ExpirationDate:     expirationDate,
		SystemTypeRaw:      trimmed(rec.SystemType),
		TankSizeGallons:    rec.TankSizeGallons,
		DrainfieldSizeSqft: rec.DrainfieldSizeSqft,
		Bedrooms:           rec.Bedrooms,
		DailyFlowGPD:       rec.DailyFlowGPD,
		PDFURL:             trimmed(rec.PDFURL),
		PermitURL:          trimmed(rec.PermitURL),
		ScrapedAt:          &scrapedAt,
		RawData:            rec.RawData,
		IsActive:           true,
	}

	if p.Address != nil {
		if norm := normalize.Address(*p.Address); norm != "" {
			p.AddressNormalized = &norm
			hash := normalize.AddressHash(norm, countyNorm, stateCode)
			p.AddressHash = &hash
		}
	}
	if p.OwnerName != nil {
		if norm := normalize.OwnerName(*p.OwnerName); norm != "" {
			p.OwnerNameNormalized = &norm
		}
	}

	return p, nil
}

// applyUpdate overwrites the stored permit's fields with the candidate's
// non-null values. Null incoming values never erase existing data.
func applyUpdate(stored, candidate *model.Permit) {
	setStr(&stored.PermitNumber, candidate.PermitNumber)
	if candidate.CountyID != nil {
		stored.CountyID = candidate.CountyID
	}
	if candidate.Address != nil {
		stored.Address = candidate.Address
		stored.AddressNormalized = candidate.AddressNormalized
		stored.AddressHash = candidate.AddressHash
	}
	setStr(&stored.City, candidate.City)
	setStr(&stored.ZipCode, candidate.ZipCode)
	setStr(&stored.ParcelNumber, candidate.ParcelNumber)
	if candidate.Latitude != nil {
		stored.Latitude = candidate.Latitude
	}
	if candidate.Longitude != nil {
		stored.Longitude = candidate.Longitude
	}
	if candidate.OwnerName != nil {
		stored.OwnerName = candidate.OwnerName
		stored.OwnerNameNormalized = candidate.OwnerNameNormalized
	}
	setStr(&stored.ApplicantName, candidate.ApplicantName)
	setStr(&stored.ContractorName, candidate.ContractorName)
	if candidate.InstallDate != nil {
		stored.InstallDate = candidate.InstallDate
	}
	if candidate.PermitDate != nil {
		stored.PermitDate = candidate.PermitDate
	}
	if candidate.ExpirationDate != nil {
		stored.ExpirationDate = candidate.ExpirationDate
	}
	if candidate.SystemTypeID != nil {
		stored.SystemTypeID = candidate.SystemTypeID
	}
	setStr(&stored.SystemTypeRaw, candidate.SystemTypeRaw)
	if candidate.TankSizeGallons != nil {
		stored.TankSizeGallons = candidate.TankSizeGallons
	}
	if candidate.DrainfieldSizeSqft != nil {
		stored.DrainfieldSizeSqft = candidate.DrainfieldSizeSqft
	}
	if candidate.Bedrooms != nil {
		stored.Bedrooms = candidate.Bedrooms
	}
	if candidate.DailyFlowGPD != nil {
		stored.DailyFlowGPD = candidate.DailyFlowGPD
	}
	setStr(&stored.PDFURL, candidate.PDFURL)
	setStr(&stored.PermitURL, candidate.PermitURL)
	if candidate.SourcePortalID != nil {
		stored.SourcePortalID = candidate.SourcePortalID
	}
	setStr(&stored.SourcePortalCode, candidate.SourcePortalCode)
	if candidate.ScrapedAt != nil {
		stored.ScrapedAt = candidate.ScrapedAt
	}
	if len(candidate.RawData) > 0 {
		stored.RawData = candidate.RawData
	}
}

func setStr(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
