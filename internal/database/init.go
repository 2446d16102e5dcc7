package database

import (
	"context"
	"fmt"

	"github.com/yourusername/esports-edge/internal/config"
)

// Schema creates the mirror table read by the dashboard. The identity key
// matches the CSV ledger's dedup key.
const Schema = `
CREATE TABLE IF NOT EXISTS bet_candidates (
	id         UUID PRIMARY KEY,
	bet_key    TEXT NOT NULL UNIQUE,
	match_date TEXT NOT NULL,
	league     TEXT NOT NULL,
	t1         TEXT NOT NULL,
	t2         TEXT NOT NULL,
	bet_type   TEXT NOT NULL,
	bet_line   TEXT NOT NULL,
	roi        NUMERIC(10, 2) NOT NULL,
	fair_odds  NUMERIC(10, 2),
	odds       NUMERIC(10, 3) NOT NULL,
	house      TEXT NOT NULL,
	url        TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Initialize creates a database connection pool and makes sure the mirror
// table exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bet_candidates table: %w", err)
	}

	return db, nil
}
