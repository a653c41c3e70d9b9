package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/permit-registry/internal/model"
)

var duplicateColumnNames = []string{
	"id", "permit_id_1", "permit_id_2", "detection_method", "confidence_score",
	"matching_fields", "status", "canonical_id", "resolved_at", "resolved_by", "resolution_notes", "created_at",
}

func TestInsertDuplicatePair_OrdersIDs(t *testing.T) {
	mock, st := newMockStore(t)

	// b > a, so the pair must be stored as (a, b).
	mock.ExpectExec(`INSERT INTO permit_duplicates`).
		WithArgs("d-1", "aaa", "bbb", model.DetectionMethod("permit_number"), 95.0, []string{"permit_number"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	d := &model.DuplicatePair{
		ID:              "d-1",
		PermitID1:       "bbb",
		PermitID2:       "aaa",
		DetectionMethod: "permit_number",
		ConfidenceScore: 95.0,
		MatchingFields:  []string{"permit_number"},
	}
	created, err := st.InsertDuplicatePair(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "aaa", d.PermitID1)
	assert.Equal(t, "bbb", d.PermitID2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDuplicatePair_AlreadyKnown(t *testing.T) {
	mock, st := newMockStore(t)

	mock.ExpectExec(`INSERT INTO permit_duplicates`).
		WithArgs("d-1", "aaa", "bbb", model.DetectionMethod("address_hash"), 90.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := st.InsertDuplicatePair(context.Background(), &model.DuplicatePair{
		ID: "d-1", PermitID1: "aaa", PermitID2: "bbb", DetectionMethod: "address_hash", ConfidenceScore: 90,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDuplicatePairs_ClampsLimit(t *testing.T) {
	mock, st := newMockStore(t)

	now := time.Now()
	rows := pgxmock.NewRows(duplicateColumnNames).
		AddRow("d-1", "aaa", "bbb", "permit_number", 95.0, []string{"permit_number"}, "pending", nil, nil, nil, nil, now)

	// 0 and 9999 both fall back to the default limit of 50.
	mock.ExpectQuery(`FROM permit_duplicates`).
		WithArgs(model.DuplicateStatusPending, 50).
		WillReturnRows(rows)

	pairs, err := st.ListDuplicatePairs(context.Background(), model.DuplicateStatusPending, 9999)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "d-1", pairs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDuplicatePair_NotFound(t *testing.T) {
	mock, st := newMockStore(t)

	mock.ExpectQuery(`FROM permit_duplicates WHERE id=`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(duplicateColumnNames))

	d, err := st.GetDuplicatePair(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPendingDuplicates(t *testing.T) {
	mock, st := newMockStore(t)

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	n, err := st.CountPendingDuplicates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
