package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
)

const duplicateColumns = `id, permit_id_1, permit_id_2, detection_method, confidence_score,
	matching_fields, status, canonical_id, resolved_at, resolved_by, resolution_notes, created_at`

func duplicateDests(d *model.DuplicatePair) []any {
	return []any{
		&d.ID, &d.PermitID1, &d.PermitID2, &d.DetectionMethod, &d.ConfidenceScore,
		&d.MatchingFields, &d.Status, &d.CanonicalID, &d.ResolvedAt, &d.ResolvedBy, &d.ResolutionNotes, &d.CreatedAt,
	}
}

// InsertDuplicatePair records a candidate pair. IDs are swapped if needed
// so permit_id_1 < permit_id_2; an already-known pair is a no-op.
// Returns whether a new pair was created.
func (s *Store) InsertDuplicatePair(ctx context.Context, d *model.DuplicatePair) (bool, error) {
	if d.PermitID1 > d.PermitID2 {
		d.PermitID1, d.PermitID2 = d.PermitID2, d.PermitID1
	}
	tag, err := s.q.Exec(ctx, `
		INSERT INTO permit_duplicates (id, permit_id_1, permit_id_2, detection_method, confidence_score, matching_fields, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		ON CONFLICT (permit_id_1, permit_id_2) DO NOTHING`,
		d.ID, d.PermitID1, d.PermitID2, d.DetectionMethod, d.ConfidenceScore, d.MatchingFields,
	)
	if err != nil {
		return false, eris.Wrap(err, "store: insert duplicate pair")
	}
	return tag.RowsAffected() > 0, nil
}

// GetDuplicatePair fetches a pair by ID. Returns nil when not found.
func (s *Store) GetDuplicatePair(ctx context.Context, id string) (*model.DuplicatePair, error) {
	d := &model.DuplicatePair{}
	err := s.q.QueryRow(ctx, `SELECT `+duplicateColumns+` FROM permit_duplicates WHERE id=$1`, id).
		Scan(duplicateDests(d)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get duplicate pair %s", id)
	}
	return d, nil
}

// GetDuplicatePairForUpdate fetches a pair with a row lock so resolution
// transitions are serialized.
func (s *Store) GetDuplicatePairForUpdate(ctx context.Context, id string) (*model.DuplicatePair, error) {
	d := &model.DuplicatePair{}
	err := s.q.QueryRow(ctx, `SELECT `+duplicateColumns+` FROM permit_duplicates WHERE id=$1 FOR UPDATE`, id).
		Scan(duplicateDests(d)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: lock duplicate pair %s", id)
	}
	return d, nil
}

// ListDuplicatePairs returns pairs filtered by status, highest confidence
// first.
func (s *Store) ListDuplicatePairs(ctx context.Context, status model.DuplicateStatus, limit int) ([]model.DuplicatePair, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.q.Query(ctx, `
		SELECT `+duplicateColumns+`
		FROM permit_duplicates
		WHERE status=$1
		ORDER BY confidence_score DESC, created_at
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list duplicate pairs")
	}
	defer rows.Close()

	var pairs []model.DuplicatePair
	for rows.Next() {
		var d model.DuplicatePair
		if err := rows.Scan(duplicateDests(&d)...); err != nil {
			return nil, eris.Wrap(err, "store: scan duplicate pair")
		}
		pairs = append(pairs, d)
	}
	return pairs, rows.Err()
}

// ResolveDuplicatePair stores the outcome of a review decision.
func (s *Store) ResolveDuplicatePair(ctx context.Context, d *model.DuplicatePair) error {
	_, err := s.q.Exec(ctx, `
		UPDATE permit_duplicates
		SET status=$2, canonical_id=$3, resolved_at=now(), resolved_by=$4, resolution_notes=$5
		WHERE id=$1`,
		d.ID, d.Status, d.CanonicalID, d.ResolvedBy, d.ResolutionNotes)
	if err != nil {
		return eris.Wrapf(err, "store: resolve duplicate pair %s", d.ID)
	}
	return nil
}

// CountPendingDuplicates returns the number of pairs awaiting review.
func (s *Store) CountPendingDuplicates(ctx context.Context) (int, error) {
	var n int
	err := s.q.QueryRow(ctx, `SELECT count(*) FROM permit_duplicates WHERE status='pending'`).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "store: count pending duplicates")
	}
	return n, nil
}
