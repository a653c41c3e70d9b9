// Package migrate embeds and applies the registry's SQL schema migrations.
package migrate

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sells-group/permit-registry/internal/db"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate runs all pending SQL migrations in lexicographic order.
// It creates the schema_migrations tracking table if needed, then applies
// any embedded .sql files not yet recorded.
func Migrate(ctx context.Context, pool db.Pool) error {
	log := zap.L().With(zap.String("component", "migrate"))

	// Advisory lock prevents concurrent migration runs (e.g. overlapping deploys).
	if _, err := pool.Exec(ctx, "SELECT pg_advisory_lock(9241617)"); err != nil {
		return eris.Wrap(err, "migrate: acquire migration advisory lock")
	}
	defer func() {
		if _, err := pool.Exec(ctx, "SELECT pg_advisory_unlock(9241617)"); err != nil {
			log.Warn("failed to release migration advisory lock", zap.Error(err))
		}
	}()

	if err := ensureMigrationTable(ctx, pool); err != nil {
		return err
	}

	names, err := migrationFiles()
	if err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, ok := applied[name]; ok {
			continue
		}

		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return eris.Wrapf(err, "migrate: read migration %s", name)
		}

		log.Info("applying migration", zap.String("file", name))

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return eris.Wrapf(err, "migrate: apply migration %s", name)
		}

		if _, err := pool.Exec(ctx,
			"INSERT INTO schema_migrations (filename, applied_at) VALUES ($1, now())",
			name,
		); err != nil {
			return eris.Wrapf(err, "migrate: record migration %s", name)
		}

		log.Info("migration applied", zap.String("file", name))
	}

	return nil
}

// MigrationStatus describes one embedded migration file and its applied state.
type MigrationStatus struct {
	Filename  string
	Applied   bool
	AppliedAt time.Time
}

// Status lists every embedded migration in apply order. The tracking table is
// created if missing so a fresh database reports all files as pending instead
// of erroring.
func Status(ctx context.Context, pool db.Pool) ([]MigrationStatus, error) {
	if err := ensureMigrationTable(ctx, pool); err != nil {
		return nil, err
	}

	names, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(names))
	for _, name := range names {
		at, ok := applied[name]
		statuses = append(statuses, MigrationStatus{Filename: name, Applied: ok, AppliedAt: at})
	}
	return statuses, nil
}

// migrationFiles returns embedded migration filenames sorted by name
// (lexicographic = numeric order with zero-padded prefixes).
func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "migrate: read migration dir")
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func ensureMigrationTable(ctx context.Context, pool db.Pool) error {
	sql := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id         SERIAL PRIMARY KEY,
			filename   TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := pool.Exec(ctx, sql); err != nil {
		return eris.Wrap(err, "migrate: ensure migration table")
	}
	return nil
}

// appliedMigrations returns applied filenames keyed to their apply time.
func appliedMigrations(ctx context.Context, pool db.Pool) (map[string]time.Time, error) {
	rows, err := pool.Query(ctx, "SELECT filename, applied_at FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "migrate: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var (
			name string
			at   time.Time
		)
		if err := rows.Scan(&name, &at); err != nil {
			return nil, eris.Wrap(err, "migrate: scan migration row")
		}
		applied[name] = at
	}
	return applied, rows.Err()
}
