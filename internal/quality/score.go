// Package quality computes per-permit data-quality scores.
package quality

import (
	"github.com/sells-group/permit-registry/internal/model"
)

// Field weights sum to 100. A permit with every scored field present and
// plausible coordinates scores 100.
const (
	weightPermitNumber = 15
	weightAddress      = 20
	weightCounty       = 8
	weightCity         = 5
	weightZip          = 4
	weightParcel       = 5
	weightCoords       = 10
	weightOwner        = 10
	weightPermitDate   = 8
	weightInstallDate  = 5
	weightSystemType   = 5
	weightTankSize     = 3
	weightDrainfield   = 2
)

const coordPenalty = 10

// Score computes a 0-100 completeness score for a permit. When the county
// carries a TIGER bounding box, coordinates outside it are penalized
// instead of credited: a point in the wrong county is worse than no point.
func Score(p *model.Permit, county *model.County) int {
	score := 0

	if strVal(p.PermitNumber) != "" {
		score += weightPermitNumber
	}
	if strVal(p.AddressNormalized) != "" {
		score += weightAddress
	}
	if p.CountyID != nil {
		score += weightCounty
	}
	if strVal(p.City) != "" {
		score += weightCity
	}
	if strVal(p.ZipCode) != "" {
		score += weightZip
	}
	if strVal(p.ParcelNumber) != "" {
		score += weightParcel
	}
	if strVal(p.OwnerName) != "" {
		score += weightOwner
	}
	if p.PermitDate != nil {
		score += weightPermitDate
	}
	if p.InstallDate != nil {
		score += weightInstallDate
	}
	if p.SystemTypeID != nil {
		score += weightSystemType
	}
	if p.TankSizeGallons != nil {
		score += weightTankSize
	}
	if p.DrainfieldSizeSqft != nil {
		score += weightDrainfield
	}

	if p.Latitude != nil && p.Longitude != nil {
		switch plausible(*p.Latitude, *p.Longitude, county) {
		case coordOK, coordUnverifiable:
			score += weightCoords
		case coordOutOfBounds:
			score -= coordPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

type coordCheck int

const (
	coordOK coordCheck = iota
	coordUnverifiable
	coordOutOfBounds
)

// plausible checks a coordinate pair against basic range limits and the
// county bounding box when available. The box is padded slightly since
// TIGER bounds clip at county lines while addresses sit on them.
func plausible(lat, lon float64, county *model.County) coordCheck {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return coordOutOfBounds
	}
	if lat == 0 && lon == 0 {
		return coordOutOfBounds
	}

	if county == nil || county.MinLat == nil || county.MaxLat == nil ||
		county.MinLon == nil || county.MaxLon == nil {
		return coordUnverifiable
	}

	const pad = 0.05
	if lat < *county.MinLat-pad || lat > *county.MaxLat+pad ||
		lon < *county.MinLon-pad || lon > *county.MaxLon+pad {
		return coordOutOfBounds
	}
	return coordOK
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
