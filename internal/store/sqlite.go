package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLite is the sqlx-backed Store. A single writer connection plus WAL
// keeps every Transact a serialized read-modify-write.
type SQLite struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas, and bootstraps the schema.
func Open(dsn string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	// SQLite supports a single writer; funnel all access through one
	// connection so transactions serialize instead of failing busy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) XP() XPRepo          { return &sqliteXPRepo{s} }
func (s *SQLite) Streaks() StreakRepo { return &sqliteStreakRepo{s} }
func (s *SQLite) Plants() PlantRepo   { return &sqlitePlantRepo{s} }

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS xp_records (
			user_id TEXT PRIMARY KEY,
			xp      INTEGER NOT NULL DEFAULT 0,
			level   INTEGER NOT NULL DEFAULT 0,
			badges  TEXT NOT NULL DEFAULT '[]',
			history TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS streak_records (
			user_id       TEXT PRIMARY KEY,
			days          INTEGER NOT NULL DEFAULT 0,
			longest       INTEGER NOT NULL DEFAULT 0,
			last_activity TEXT NOT NULL DEFAULT '',
			freeze_count  INTEGER NOT NULL DEFAULT 0,
			history       TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS plants (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			item           TEXT NOT NULL,
			category       TEXT NOT NULL,
			stage          TEXT NOT NULL,
			practice_count INTEGER NOT NULL DEFAULT 0,
			mastery        REAL NOT NULL DEFAULT 0,
			history        TEXT NOT NULL DEFAULT '[]',
			UNIQUE (user_id, item, category)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plants_user ON plants (user_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction. Storage-level failures come back as
// TransientError; errors from fn pass through untouched.
func (s *SQLite) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("begin tx: %w", err)}
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &TransientError{Err: fmt.Errorf("commit tx: %w", err)}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGUA_DB environment variable
// 2. $XDG_DATA_HOME/lingua/lingua.db
// 3. ~/.local/share/lingua/lingua.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGUA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lingua", "lingua.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
