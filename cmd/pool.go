package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/db"
)

// openPool connects to the configured database. Callers own the close.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.Database.URL == "" {
		return nil, eris.New("database.url is not configured (set PERMITS_DATABASE_URL)")
	}
	return db.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
}
