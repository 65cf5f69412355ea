// Package store persists polls and the generation log in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// schemaVersion is recorded in the metadata table after migration.
const schemaVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. ":memory:" gives a
// private in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS polls (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS poll_options (
		poll_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		votes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (poll_id, id),
		FOREIGN KEY (poll_id) REFERENCES polls(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_type TEXT NOT NULL,
		model TEXT NOT NULL,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		prompt_chars INTEGER NOT NULL DEFAULT 0,
		response_chars INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.SetMetadata("schema_version", strconv.Itoa(schemaVersion))
}
