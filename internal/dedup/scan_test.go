package dedup

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestScan(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectExec(`'permit_number', 95`).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))
	mock.ExpectExec(`'address_hash', 90`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`'fuzzy_address'`).
		WillReturnResult(pgxmock.NewResult("INSERT", 4))

	res, err := Scan(context.Background(), mock)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 3, res.PermitNumberPairs)
	assert.Equal(t, 1, res.AddressHashPairs)
	assert.Equal(t, 4, res.FuzzyAddressPairs)
	assert.Equal(t, 8, res.Total())
}

func TestScan_NothingFound(t *testing.T) {
	mock := newMockPool(t)

	for _, frag := range []string{`'permit_number', 95`, `'address_hash', 90`, `'fuzzy_address'`} {
		mock.ExpectExec(frag).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	}

	res, err := Scan(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total())
}

func TestScan_PassError(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectExec(`'permit_number', 95`).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(`'address_hash', 90`).
		WillReturnError(assert.AnError)

	_, err := Scan(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedup: scan address hashes")
}
