package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestPermitStatus(t *testing.T) {
	t.Parallel()

	canonical := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	tests := []struct {
		name   string
		permit Permit
		want   Status
	}{
		{
			name:   "active",
			permit: Permit{IsActive: true},
			want:   Status{Kind: StatusActive},
		},
		{
			name:   "merged duplicate",
			permit: Permit{IsActive: false, DuplicateOfID: &canonical},
			want:   Status{Kind: StatusDuplicate, CanonicalID: canonical},
		},
		{
			name:   "deactivated",
			permit: Permit{IsActive: false},
			want:   Status{Kind: StatusInactive},
		},
		{
			name:   "empty duplicate pointer is plain inactive",
			permit: Permit{IsActive: false, DuplicateOfID: strPtr("")},
			want:   Status{Kind: StatusInactive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.permit.Status())
			assert.Equal(t, tt.want.Kind == StatusActive, tt.permit.Authoritative())
		})
	}
}

func TestPermitHasProperty(t *testing.T) {
	t.Parallel()

	lat, lon := 30.26, -97.74
	assert.False(t, (&Permit{}).HasProperty())
	assert.True(t, (&Permit{ParcelNumber: strPtr("R123456")}).HasProperty())
	assert.False(t, (&Permit{ParcelNumber: strPtr("")}).HasProperty())
	assert.True(t, (&Permit{Latitude: &lat, Longitude: &lon}).HasProperty())
	assert.False(t, (&Permit{Latitude: &lat}).HasProperty())
}

func TestDuplicatePairOther(t *testing.T) {
	t.Parallel()

	pair := DuplicatePair{PermitID1: "a", PermitID2: "b"}

	other, ok := pair.Other("a")
	assert.True(t, ok)
	assert.Equal(t, "b", other)

	other, ok = pair.Other("b")
	assert.True(t, ok)
	assert.Equal(t, "a", other)

	_, ok = pair.Other("c")
	assert.False(t, ok)
}

func TestIngestStatsFinalStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BatchStatusCompleted, IngestStats{}.FinalStatus())
	assert.Equal(t, BatchStatusCompletedWithErrors, IngestStats{Errors: 1}.FinalStatus())
}
