package load

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := OpenJournal(path)
	require.NoError(t, err)
	defer j.Close() //nolint:errcheck

	seen, err := j.Seen(ctx, "sha-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, j.Record(ctx, "sha-1", "permits.csv", "batch-1", 120))

	seen, err = j.Seen(ctx, "sha-1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Re-recording the same hash overwrites, it never errors.
	require.NoError(t, j.Record(ctx, "sha-1", "permits.csv", "batch-2", 120))

	seen, err = j.Seen(ctx, "sha-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestJournal_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, "sha-1", "permits.csv", "batch-1", 10))
	require.NoError(t, j.Close())

	// The ledger survives across runs.
	j, err = OpenJournal(path)
	require.NoError(t, err)
	defer j.Close() //nolint:errcheck

	seen, err := j.Seen(ctx, "sha-1")
	require.NoError(t, err)
	assert.True(t, seen)
}
