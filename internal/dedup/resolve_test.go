package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/permit-registry/internal/model"
)

var duplicateColumnNames = []string{
	"id", "permit_id_1", "permit_id_2", "detection_method", "confidence_score",
	"matching_fields", "status", "canonical_id", "resolved_at", "resolved_by", "resolution_notes", "created_at",
}

func pendingPairRow(id string) []any {
	return []any{
		id, "aaa", "bbb", model.DetectionPermitNumber, 95.0,
		[]string{"permit_number", "state"}, model.DuplicateStatusPending, nil, nil, nil, nil, time.Now(),
	}
}

func expectLockPair(mock pgxmock.PgxPoolIface, id string, rows *pgxmock.Rows) {
	mock.ExpectQuery(`FROM permit_duplicates WHERE id=\$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(rows)
}

func TestResolve_Merge(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	expectLockPair(mock, "pair-1", pgxmock.NewRows(duplicateColumnNames).AddRow(pendingPairRow("pair-1")...))
	mock.ExpectExec(`UPDATE septic_permits`).
		WithArgs("bbb", "aaa").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE permit_duplicates`).
		WithArgs("pair-1", model.DuplicateStatusMerged, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	pair, err := Resolve(context.Background(), mock, "pair-1", Resolution{
		Action:      model.ResolutionMerge,
		CanonicalID: "aaa",
		ResolvedBy:  "reviewer@example.com",
		Notes:       "same tank, same parcel",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, model.DuplicateStatusMerged, pair.Status)
	require.NotNil(t, pair.CanonicalID)
	assert.Equal(t, "aaa", *pair.CanonicalID)
	require.NotNil(t, pair.ResolvedBy)
	assert.Equal(t, "reviewer@example.com", *pair.ResolvedBy)
	require.NotNil(t, pair.ResolutionNotes)
	assert.Equal(t, "same tank, same parcel", *pair.ResolutionNotes)
}

func TestResolve_Reject(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	expectLockPair(mock, "pair-1", pgxmock.NewRows(duplicateColumnNames).AddRow(pendingPairRow("pair-1")...))
	mock.ExpectExec(`UPDATE permit_duplicates`).
		WithArgs("pair-1", model.DuplicateStatusRejected, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	pair, err := Resolve(context.Background(), mock, "pair-1", Resolution{Action: model.ResolutionReject})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, model.DuplicateStatusRejected, pair.Status)
	assert.Nil(t, pair.CanonicalID)
	assert.Nil(t, pair.ResolvedBy)
}

func TestResolve_PairNotFound(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	expectLockPair(mock, "missing", pgxmock.NewRows(duplicateColumnNames))
	mock.ExpectRollback()

	_, err := Resolve(context.Background(), mock, "missing", Resolution{Action: model.ResolutionReject})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPairNotFound))
}

func TestResolve_AlreadyResolved(t *testing.T) {
	mock := newMockPool(t)

	row := pendingPairRow("pair-1")
	row[6] = model.DuplicateStatusMerged

	mock.ExpectBegin()
	expectLockPair(mock, "pair-1", pgxmock.NewRows(duplicateColumnNames).AddRow(row...))
	mock.ExpectRollback()

	_, err := Resolve(context.Background(), mock, "pair-1", Resolution{Action: model.ResolutionReject})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAlreadyResolved))
}

func TestResolve_CanonicalNotInPair(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	expectLockPair(mock, "pair-1", pgxmock.NewRows(duplicateColumnNames).AddRow(pendingPairRow("pair-1")...))
	mock.ExpectRollback()

	_, err := Resolve(context.Background(), mock, "pair-1", Resolution{
		Action:      model.ResolutionMerge,
		CanonicalID: "ccc",
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrCanonicalNotInPair))
}

func TestResolve_UnknownAction(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	expectLockPair(mock, "pair-1", pgxmock.NewRows(duplicateColumnNames).AddRow(pendingPairRow("pair-1")...))
	mock.ExpectRollback()

	_, err := Resolve(context.Background(), mock, "pair-1", Resolution{Action: "obliterate"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownAction))
}
