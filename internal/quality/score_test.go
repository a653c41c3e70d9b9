package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/permit-registry/internal/model"
)

func strp(s string) *string     { return &s }
func intp(n int) *int           { return &n }
func fp(f float64) *float64     { return &f }
func tp(t time.Time) *time.Time { return &t }

func fullPermit() *model.Permit {
	return &model.Permit{
		PermitNumber:       strp("TX-100"),
		AddressNormalized:  strp("123 MAIN ST"),
		CountyID:           intp(12),
		City:               strp("AUSTIN"),
		ZipCode:            strp("78701"),
		ParcelNumber:       strp("0123-45"),
		OwnerName:          strp("DOE JOHN"),
		PermitDate:         tp(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)),
		InstallDate:        tp(time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)),
		SystemTypeID:       intp(1),
		TankSizeGallons:    intp(1000),
		DrainfieldSizeSqft: intp(400),
		Latitude:           fp(30.27),
		Longitude:          fp(-97.74),
	}
}

func travisCounty() *model.County {
	return &model.County{
		MinLat: fp(30.02), MaxLat: fp(30.63),
		MinLon: fp(-98.17), MaxLon: fp(-97.37),
	}
}

func TestScore_FullRecord(t *testing.T) {
	assert.Equal(t, 100, Score(fullPermit(), travisCounty()))
}

func TestScore_EmptyRecord(t *testing.T) {
	assert.Equal(t, 0, Score(&model.Permit{}, nil))
}

func TestScore_CoordsWithoutCountyBoxStillCredited(t *testing.T) {
	p := fullPermit()
	assert.Equal(t, 100, Score(p, nil))
}

func TestScore_CoordsOutsideCountyPenalized(t *testing.T) {
	p := fullPermit()
	// Seattle coordinates against a central Texas county box.
	p.Latitude = fp(47.61)
	p.Longitude = fp(-122.33)

	full := Score(fullPermit(), travisCounty())
	penalized := Score(p, travisCounty())
	assert.Equal(t, full-weightCoords-coordPenalty, penalized)
}

func TestScore_NullIslandIsOutOfBounds(t *testing.T) {
	p := fullPermit()
	p.Latitude = fp(0)
	p.Longitude = fp(0)
	assert.Equal(t, 100-weightCoords-coordPenalty, Score(p, nil))
}

func TestScore_NeverNegative(t *testing.T) {
	p := &model.Permit{Latitude: fp(999), Longitude: fp(999)}
	assert.Equal(t, 0, Score(p, nil))
}

func TestPlausible_PaddedBoundary(t *testing.T) {
	c := travisCounty()
	// Just outside the box but within the padding.
	assert.Equal(t, coordOK, plausible(30.66, -97.74, c))
	// Well outside the padding.
	assert.Equal(t, coordOutOfBounds, plausible(31.20, -97.74, c))
}

func TestPlausible_MissingBoxUnverifiable(t *testing.T) {
	assert.Equal(t, coordUnverifiable, plausible(30.27, -97.74, &model.County{}))
	assert.Equal(t, coordUnverifiable, plausible(30.27, -97.74, nil))
}
