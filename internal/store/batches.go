package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/model"
)

// CreateBatch opens an import batch row in processing state.
func (s *Store) CreateBatch(ctx context.Context, b *model.ImportBatch) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO permit_import_batches (id, source_portal_id, source_name, total_records, status, started_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING started_at, created_at`,
		b.ID, b.SourcePortalID, b.Source, b.TotalRecords, b.Status,
	).Scan(&b.StartedAt, &b.CreatedAt)
	if err != nil {
		return eris.Wrap(err, "store: create batch")
	}
	return nil
}

// UpdateBatchProgress persists running counts so partial progress is
// visible, and survives, if a later chunk fails.
func (s *Store) UpdateBatchProgress(ctx context.Context, b *model.ImportBatch) error {
	_, err := s.q.Exec(ctx, `
		UPDATE permit_import_batches
		SET inserted=$2, updated=$3, skipped=$4, errors=$5
		WHERE id=$1`,
		b.ID, b.InsertedCount, b.UpdatedCount, b.SkippedCount, b.ErrorCount)
	if err != nil {
		return eris.Wrapf(err, "store: update batch %s", b.ID)
	}
	return nil
}

// FinalizeBatch records the terminal status, counts, timing, and capped
// error details. The row is immutable afterward.
func (s *Store) FinalizeBatch(ctx context.Context, b *model.ImportBatch) error {
	var details []byte
	if len(b.ErrorDetails) > 0 {
		var err error
		details, err = json.Marshal(b.ErrorDetails)
		if err != nil {
			return eris.Wrap(err, "store: marshal batch error details")
		}
	}

	err := s.q.QueryRow(ctx, `
		UPDATE permit_import_batches
		SET status=$2, inserted=$3, updated=$4, skipped=$5, errors=$6,
			completed_at=now(), processing_time_seconds=$7, error_details=$8
		WHERE id=$1
		RETURNING completed_at`,
		b.ID, b.Status, b.InsertedCount, b.UpdatedCount, b.SkippedCount, b.ErrorCount,
		b.ProcessingTimeSeconds, details,
	).Scan(&b.CompletedAt)
	if err != nil {
		return eris.Wrapf(err, "store: finalize batch %s", b.ID)
	}
	return nil
}

// GetBatch fetches an import batch by ID. Returns nil when not found.
func (s *Store) GetBatch(ctx context.Context, id string) (*model.ImportBatch, error) {
	b := &model.ImportBatch{}
	var details []byte
	err := s.q.QueryRow(ctx, `
		SELECT id, source_portal_id, source_name, total_records,
			inserted, updated, skipped, errors, status,
			started_at, completed_at, processing_time_seconds, error_details, created_at
		FROM permit_import_batches WHERE id=$1`, id).
		Scan(&b.ID, &b.SourcePortalID, &b.Source, &b.TotalRecords,
			&b.InsertedCount, &b.UpdatedCount, &b.SkippedCount, &b.ErrorCount, &b.Status,
			&b.StartedAt, &b.CompletedAt, &b.ProcessingTimeSeconds, &details, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get batch %s", id)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &b.ErrorDetails); err != nil {
			return nil, eris.Wrapf(err, "store: decode batch error details %s", id)
		}
	}
	return b, nil
}
