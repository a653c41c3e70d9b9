package load

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // local journal driver
)

// Journal is a local SQLite ledger of loaded files, keyed on content
// hash. It gives file-level idempotence: re-running a load skips files
// whose bytes have already been absorbed.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "load: open journal %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS loaded_files (
			sha256    TEXT PRIMARY KEY,
			source    TEXT NOT NULL,
			batch_ids TEXT NOT NULL,
			records   INTEGER NOT NULL,
			loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "load: init journal schema")
	}

	return &Journal{db: db}, nil
}

// Seen reports whether a file with this content hash was already loaded.
func (j *Journal) Seen(ctx context.Context, sha string) (bool, error) {
	var one int
	err := j.db.QueryRowContext(ctx, `SELECT 1 FROM loaded_files WHERE sha256=?`, sha).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "load: journal lookup")
	}
	return true, nil
}

// Record marks a file as loaded. A re-load with --force overwrites the
// earlier entry.
func (j *Journal) Record(ctx context.Context, sha, source, batchIDs string, records int) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO loaded_files (sha256, source, batch_ids, records)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (sha256) DO UPDATE SET
			source=excluded.source, batch_ids=excluded.batch_ids,
			records=excluded.records, loaded_at=CURRENT_TIMESTAMP`,
		sha, source, batchIDs, records)
	if err != nil {
		return eris.Wrap(err, "load: journal record")
	}
	return nil
}

// Close releases the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
