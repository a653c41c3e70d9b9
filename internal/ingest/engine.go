// Package ingest absorbs batches of scraped permit records into the
// canonical store with dedup matching, version snapshots, and batch
// statistics. Re-running an unchanged batch is a no-op.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/config"
	"github.com/sells-group/permit-registry/internal/db"
	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/normalize"
	"github.com/sells-group/permit-registry/internal/quality"
	"github.com/sells-group/permit-registry/internal/refdata"
	"github.com/sells-group/permit-registry/internal/store"
)

// ErrBatchTooLarge rejects oversized batches wholesale, before any record
// is processed.
var ErrBatchTooLarge = eris.Errorf("ingest: batch exceeds %d records", model.MaxBatchSize)

// Outcome classifies what happened to one record.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

// Engine runs batch ingestion over a connection pool. Each chunk of
// records commits in its own transaction so partial progress survives a
// later failure; each record runs under a savepoint so one bad record
// never poisons its chunk.
type Engine struct {
	pool db.Pool
	cfg  config.IngestConfig
	log  *zap.Logger
}

// New creates an ingestion engine.
func New(pool db.Pool, cfg config.IngestConfig) *Engine {
	if cfg.CommitEvery <= 0 {
		cfg.CommitEvery = 100
	}
	if cfg.MaxErrorDetails <= 0 {
		cfg.MaxErrorDetails = 100
	}
	return &Engine{
		pool: pool,
		cfg:  cfg,
		log:  zap.L().With(zap.String("component", "ingest")),
	}
}

// IngestBatch absorbs one batch of records for a source portal and returns
// the outcome statistics. Per-record failures are isolated and reported in
// the stats; only batch-level failures (oversize, lost connection) return
// an error.
func (e *Engine) IngestBatch(ctx context.Context, portalCode string, records []model.PermitRecord) (*model.IngestStats, error) {
	if len(records) > model.MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	start := time.Now()
	poolStore := store.New(e.pool)
	resolver := refdata.NewResolver(poolStore, refdata.NewCache())

	portalID, err := resolver.Portal(ctx, portalCode)
	if err != nil {
		return nil, err
	}

	batch := &model.ImportBatch{
		ID:             uuid.NewString(),
		SourcePortalID: &portalID,
		Source:         portalCode,
		Status:         model.BatchStatusProcessing,
		TotalRecords:   len(records),
	}
	if err := poolStore.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	e.log.Info("batch started",
		zap.String("batch_id", batch.ID),
		zap.String("portal", portalCode),
		zap.Int("records", len(records)),
	)

	if err := e.processChunks(ctx, batch, resolver, portalID, portalCode, records); err != nil {
		batch.Status = model.BatchStatusFailed
		secs := time.Since(start).Seconds()
		batch.ProcessingTimeSeconds = &secs
		if finErr := poolStore.FinalizeBatch(ctx, batch); finErr != nil {
			e.log.Error("failed to mark batch failed", zap.String("batch_id", batch.ID), zap.Error(finErr))
		}
		return nil, err
	}

	secs := time.Since(start).Seconds()
	stats := &model.IngestStats{
		BatchID:               batch.ID,
		Inserted:              batch.InsertedCount,
		Updated:               batch.UpdatedCount,
		Skipped:               batch.SkippedCount,
		Errors:                batch.ErrorCount,
		ProcessingTimeSeconds: secs,
		ErrorDetails:          batch.ErrorDetails,
	}

	batch.Status = stats.FinalStatus()
	batch.ProcessingTimeSeconds = &secs
	if err := poolStore.FinalizeBatch(ctx, batch); err != nil {
		return nil, err
	}
	if err := poolStore.RecordPortalScrape(ctx, portalID, len(records)); err != nil {
		return nil, err
	}

	e.log.Info("batch finished",
		zap.String("batch_id", batch.ID),
		zap.String("status", string(batch.Status)),
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
		zap.Float64("seconds", secs),
	)

	return stats, nil
}

// processChunks walks the records in commit-sized chunks, updating the
// batch row's running counts after each commit checkpoint.
func (e *Engine) processChunks(ctx context.Context, batch *model.ImportBatch, resolver *refdata.Resolver, portalID int, portalCode string, records []model.PermitRecord) error {
	poolStore := store.New(e.pool)
	now := time.Now().UTC()

	for offset := 0; offset < len(records); offset += e.cfg.CommitEvery {
		end := offset + e.cfg.CommitEvery
		if end > len(records) {
			end = len(records)
		}

		tx, err := e.pool.Begin(ctx)
		if err != nil {
			return eris.Wrap(err, "ingest: begin chunk transaction")
		}

		for i := offset; i < end; i++ {
			rec := &records[i]

			// A savepoint per record isolates integrity violations:
			// rolling it back keeps the rest of the chunk committable.
			sp, err := tx.Begin(ctx)
			if err != nil {
				_ = tx.Rollback(ctx)
				return eris.Wrap(err, "ingest: begin record savepoint")
			}

			outcome, recErr := e.ingestRecord(ctx, store.New(sp), resolver.WithStore(store.New(sp)), portalID, portalCode, rec, now)
			if recErr != nil {
				_ = sp.Rollback(ctx)
				batch.ErrorCount++
				e.recordError(batch, i, rec, recErr)
				continue
			}
			if err := sp.Commit(ctx); err != nil {
				_ = tx.Rollback(ctx)
				return eris.Wrap(err, "ingest: release record savepoint")
			}

			switch outcome {
			case OutcomeInserted:
				batch.InsertedCount++
			case OutcomeUpdated:
				batch.UpdatedCount++
			case OutcomeSkipped:
				batch.SkippedCount++
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return eris.Wrap(err, "ingest: commit chunk")
		}
		if err := poolStore.UpdateBatchProgress(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

// recordError appends a capped error detail and logs the failure.
func (e *Engine) recordError(batch *model.ImportBatch, index int, rec *model.PermitRecord, err error) {
	permitNumber := ""
	if rec.PermitNumber != nil {
		permitNumber = *rec.PermitNumber
	}

	e.log.Warn("record failed",
		zap.String("batch_id", batch.ID),
		zap.Int("index", index),
		zap.String("permit_number", permitNumber),
		zap.Error(err),
	)

	if len(batch.ErrorDetails) >= e.cfg.MaxErrorDetails {
		return
	}
	batch.ErrorDetails = append(batch.ErrorDetails, model.RecordError{
		Index:        index,
		PermitNumber: permitNumber,
		Error:        err.Error(),
	})
}

// ingestRecord runs the per-record algorithm: resolve, normalize, match,
// then insert, update, or skip.
func (e *Engine) ingestRecord(ctx context.Context, st *store.Store, resolver *refdata.Resolver, portalID int, portalCode string, rec *model.PermitRecord, now time.Time) (Outcome, error) {
	stateID, err := resolver.State(ctx, rec.StateCode)
	if err != nil {
		return 0, err
	}
	stateCode := normalize.State(rec.StateCode)

	var countyID *int
	countyNorm := ""
	if rec.CountyName != nil {
		countyNorm = normalize.County(*rec.CountyName)
		countyID, err = resolver.County(ctx, stateID, *rec.CountyName)
		if err != nil {
			return 0, err
		}
	}

	candidate, err := buildCandidate(rec, stateID, stateCode, countyID, countyNorm, now)
	if err != nil {
		return 0, err
	}

	if rec.SystemType != nil {
		candidate.SystemTypeID, err = resolver.SystemType(ctx, *rec.SystemType)
		if err != nil {
			return 0, err
		}
	}

	candidate.SourcePortalID = &portalID
	candidate.SourcePortalCode = &portalCode

	hash := RecordHash(candidate)
	candidate.RecordHash = &hash

	stored, err := e.findMatch(ctx, st, candidate, stateID)
	if err != nil {
		return 0, err
	}

	var county *model.County
	if countyID != nil {
		county, err = st.GetCountyByID(ctx, *countyID)
		if err != nil {
			return 0, err
		}
	}

	if stored == nil {
		candidate.ID = uuid.NewString()
		candidate.Version = 1
		score := quality.Score(candidate, county)
		candidate.DataQualityScore = &score

		if err := st.InsertPermit(ctx, candidate); err != nil {
			if store.IsUniqueViolation(err) {
				return 0, eris.Wrap(err, "ingest: lost insert race on canonical key")
			}
			return 0, err
		}
		return OutcomeInserted, nil
	}

	if stored.RecordHash != nil && *stored.RecordHash == hash {
		return OutcomeSkipped, nil
	}

	changed := DiffFields(stored, candidate)
	if len(changed) == 0 {
		// Hash moved only because fields went null; nothing material.
		return OutcomeSkipped, nil
	}

	snapshot, err := Snapshot(stored)
	if err != nil {
		return 0, eris.Wrap(err, "ingest: snapshot pre-update state")
	}
	version := &model.PermitVersion{
		ID:             uuid.NewString(),
		PermitID:       stored.ID,
		Version:        stored.Version,
		PermitData:     snapshot,
		ChangedFields:  changed,
		ChangeSource:   model.ChangeSourceScraper,
		SourcePortalID: &portalID,
		ScrapedAt:      candidate.ScrapedAt,
		CreatedBy:      "system",
	}
	if err := st.InsertVersion(ctx, version); err != nil {
		return 0, err
	}

	applyUpdate(stored, candidate)
	stored.Version++
	stored.RecordHash = &hash
	score := quality.Score(stored, county)
	stored.DataQualityScore = &score

	if err := st.UpdatePermit(ctx, stored); err != nil {
		if store.IsUniqueViolation(err) {
			return 0, eris.Wrap(err, "ingest: update collided on canonical key")
		}
		return 0, err
	}
	return OutcomeUpdated, nil
}

// findMatch locates the existing record for a candidate, address key
// first, then permit number within the state.
func (e *Engine) findMatch(ctx context.Context, st *store.Store, candidate *model.Permit, stateID int) (*model.Permit, error) {
	if candidate.AddressHash != nil {
		p, err := st.FindActiveByAddressKey(ctx, *candidate.AddressHash, candidate.CountyID, stateID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	if candidate.PermitNumber != nil {
		p, err := st.FindActiveByPermitNumber(ctx, *candidate.PermitNumber, stateID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}
