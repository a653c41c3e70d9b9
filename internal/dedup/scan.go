// Package dedup finds candidate duplicate permit pairs and applies review
// decisions. Detection writes pending pairs for a human; nothing is
// merged automatically.
package dedup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/db"
)

// ScanResult counts the new pending pairs found per detection method.
type ScanResult struct {
	PermitNumberPairs int `json:"permit_number_pairs"`
	AddressHashPairs  int `json:"address_hash_pairs"`
	FuzzyAddressPairs int `json:"fuzzy_address_pairs"`
}

// Total returns the number of new pairs across all methods.
func (r ScanResult) Total() int {
	return r.PermitNumberPairs + r.AddressHashPairs + r.FuzzyAddressPairs
}

// Scan runs the duplicate-detection pass over active permits. Pairs are
// stored with permit_id_1 < permit_id_2; already-known pairs are left
// untouched, so the scan is safe to re-run.
func Scan(ctx context.Context, q db.Querier) (*ScanResult, error) {
	log := zap.L().With(zap.String("component", "dedup"))
	result := &ScanResult{}

	// Same permit number within a state. The active-row unique index
	// normally prevents this; hits here are legacy rows or records that
	// raced past the constraint before it existed.
	tag, err := q.Exec(ctx, `
		INSERT INTO permit_duplicates (id, permit_id_1, permit_id_2, detection_method, confidence_score, matching_fields, status)
		SELECT gen_random_uuid(), LEAST(a.id, b.id), GREATEST(a.id, b.id),
			'permit_number', 95, ARRAY['permit_number', 'state'], 'pending'
		FROM septic_permits a
		JOIN septic_permits b
			ON b.permit_number = a.permit_number AND b.state_id = a.state_id AND b.id > a.id
		WHERE a.is_active AND b.is_active AND a.permit_number IS NOT NULL
		ON CONFLICT (permit_id_1, permit_id_2) DO NOTHING`)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: scan permit numbers")
	}
	result.PermitNumberPairs = int(tag.RowsAffected())

	// Same address hash within a state but a different county reference,
	// typically one record missing its county. The dedup index only
	// guards identical (hash, county, state) keys.
	tag, err = q.Exec(ctx, `
		INSERT INTO permit_duplicates (id, permit_id_1, permit_id_2, detection_method, confidence_score, matching_fields, status)
		SELECT gen_random_uuid(), LEAST(a.id, b.id), GREATEST(a.id, b.id),
			'address_hash', 90, ARRAY['address', 'state'], 'pending'
		FROM septic_permits a
		JOIN septic_permits b
			ON b.address_hash = a.address_hash AND b.state_id = a.state_id AND b.id > a.id
		WHERE a.is_active AND b.is_active AND a.address_hash IS NOT NULL
			AND a.county_id IS DISTINCT FROM b.county_id
		ON CONFLICT (permit_id_1, permit_id_2) DO NOTHING`)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: scan address hashes")
	}
	result.AddressHashPairs = int(tag.RowsAffected())

	// Near-identical normalized addresses within a county; confidence
	// scales with the trigram similarity.
	tag, err = q.Exec(ctx, `
		INSERT INTO permit_duplicates (id, permit_id_1, permit_id_2, detection_method, confidence_score, matching_fields, status)
		SELECT gen_random_uuid(), LEAST(a.id, b.id), GREATEST(a.id, b.id),
			'fuzzy_address',
			round((similarity(a.address_normalized, b.address_normalized) * 100)::numeric, 2),
			ARRAY['address', 'county', 'state'], 'pending'
		FROM septic_permits a
		JOIN septic_permits b
			ON b.county_id = a.county_id AND b.state_id = a.state_id AND b.id > a.id
		WHERE a.is_active AND b.is_active
			AND a.address_normalized IS NOT NULL AND b.address_normalized IS NOT NULL
			AND a.address_hash IS DISTINCT FROM b.address_hash
			AND similarity(a.address_normalized, b.address_normalized) > 0.85
		ON CONFLICT (permit_id_1, permit_id_2) DO NOTHING`)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: scan fuzzy addresses")
	}
	result.FuzzyAddressPairs = int(tag.RowsAffected())

	log.Info("duplicate scan complete",
		zap.Int("permit_number", result.PermitNumberPairs),
		zap.Int("address_hash", result.AddressHashPairs),
		zap.Int("fuzzy_address", result.FuzzyAddressPairs),
	)

	return result, nil
}
