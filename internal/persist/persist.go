// Package persist is the durable key-value collaborator behind the adaptive
// state store. The store decides WHAT is persisted (the allow-list lives
// there); this package only moves named byte payloads in and out of SQLite.
package persist

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region port

// Port is the persistence contract the state store speaks. Load reports
// ok=false when the key has never been saved.
type Port interface {
	Load(key string) (value []byte, ok bool, err error)
	Save(key string, value []byte) error
	Close() error
}

// #endregion port

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS kv_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// #endregion schema

// #region sqlite-store

// SQLiteStore implements Port on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying *sql.DB for use by other packages (e.g. audit).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #endregion sqlite-store

// #region load-save

// Load reads the payload for a key. A missing key is not an error.
func (s *SQLiteStore) Load(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

// Save upserts the payload for a key.
func (s *SQLiteStore) Save(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// #endregion load-save
