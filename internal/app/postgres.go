package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/nfsindex/config"

	_ "github.com/lib/pq"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxIdleTime = 5 * time.Minute
)

// sqlOpener is swapped in tests.
var sqlOpener = sql.Open

// InitPostgres opens the listing store described by cfg.Postgres, sizes its
// pool for the dashboard read path plus ingestion, and pings it. A handle
// that fails the ping is closed before returning.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres at %s:%d: %w", cfg.Postgres.Host, cfg.Postgres.Port, err)
	}
	return db, nil
}

// postgresOpener is what NewListingSource calls; tests replace it.
var postgresOpener = InitPostgres
