package model

import "time"

// BatchStatus is the lifecycle state of an import batch.
type BatchStatus string

const (
	BatchStatusProcessing          BatchStatus = "processing"
	BatchStatusCompleted           BatchStatus = "completed"
	BatchStatusCompletedWithErrors BatchStatus = "completed_with_errors"
	BatchStatusFailed              BatchStatus = "failed"
)

// MaxBatchSize is the hard cap on records per ingestion batch. Larger
// batches are rejected wholesale before any record is processed.
const MaxBatchSize = 10000

// RecordError describes one failed record within a batch.
type RecordError struct {
	Index        int    `json:"index"`
	PermitNumber string `json:"permit_number,omitempty"`
	Error        string `json:"error"`
}

// ImportBatch is one ingestion run: created at batch start, updated as
// records process, finalized at batch end, immutable afterward.
type ImportBatch struct {
	ID                    string        `json:"id"`
	SourcePortalID        *int          `json:"source_portal_id,omitempty"`
	Source                string        `json:"source"`
	Status                BatchStatus   `json:"status"`
	TotalRecords          int           `json:"total_records"`
	InsertedCount         int           `json:"inserted_count"`
	UpdatedCount          int           `json:"updated_count"`
	SkippedCount          int           `json:"skipped_count"`
	ErrorCount            int           `json:"error_count"`
	ErrorDetails          []RecordError `json:"error_details,omitempty"`
	StartedAt             time.Time     `json:"started_at"`
	CompletedAt           *time.Time    `json:"completed_at,omitempty"`
	ProcessingTimeSeconds *float64      `json:"processing_time_seconds,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
}

// IngestStats is the outcome summary returned to the batch submitter.
type IngestStats struct {
	BatchID               string        `json:"batch_id"`
	Inserted              int           `json:"inserted"`
	Updated               int           `json:"updated"`
	Skipped               int           `json:"skipped"`
	Errors                int           `json:"errors"`
	ProcessingTimeSeconds float64       `json:"processing_time_seconds"`
	ErrorDetails          []RecordError `json:"error_details,omitempty"`
}

// FinalStatus derives the terminal batch status from the error count.
func (s IngestStats) FinalStatus() BatchStatus {
	if s.Errors > 0 {
		return BatchStatusCompletedWithErrors
	}
	return BatchStatusCompleted
}
