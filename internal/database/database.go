// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventregistry/internal/config"
)

// DSN builds a libpq-compatible connection string from the config.
func DSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
}

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				return pool, nil
			}
			pool.Close()
			err = pingErr
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// schema is the full DDL, applied idempotently at startup. The unique
// index on (event_id, attendee_id) is the authoritative backstop for
// the duplicate-registration invariant.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id            BIGSERIAL PRIMARY KEY,
	title         TEXT        NOT NULL,
	description   TEXT        NOT NULL,
	date          TIMESTAMPTZ NOT NULL,
	location      TEXT        NOT NULL,
	max_attendees INT         NOT NULL CHECK (max_attendees > 0),
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	deleted       BOOLEAN     NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS attendees (
	id     UUID PRIMARY KEY,
	name   TEXT NOT NULL,
	gender TEXT NOT NULL,
	email  TEXT NOT NULL UNIQUE,
	phone  TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS registrations (
	id          UUID PRIMARY KEY,
	event_id    BIGINT      NOT NULL REFERENCES events (id),
	attendee_id UUID        NOT NULL REFERENCES attendees (id),
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, attendee_id)
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
