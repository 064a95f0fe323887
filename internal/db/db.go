// Package db opens the arena's backing stores: a SQLite archive for
// finished games and ratings, and Redis for live standings and the
// spectator event feed.
package db

import (
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	black TEXT NOT NULL,
	white TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '',
	score_black REAL NOT NULL,
	forfeit INTEGER NOT NULL DEFAULT 0,
	reason TEXT NOT NULL DEFAULT '',
	moves TEXT NOT NULL DEFAULT '',
	played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ratings (
	player TEXT PRIMARY KEY,
	rating REAL NOT NULL,
	games INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Connect opens the SQLite archive at dbPath and ensures the schema exists.
func Connect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	if _, err := pool.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := pool.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("database connection initialized and schema verified", "path", dbPath)
	return pool, nil
}
