package predict

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema

const transitionSchema = `
CREATE TABLE IF NOT EXISTS transition_edges (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    from_key    TEXT NOT NULL,
    to_key      TEXT NOT NULL,
    count       INTEGER NOT NULL DEFAULT 1,
    updated_at  TEXT NOT NULL,
    UNIQUE(from_key, to_key)
);
CREATE INDEX IF NOT EXISTS idx_transition_from ON transition_edges(from_key);

CREATE TABLE IF NOT EXISTS behavior_patterns (
    id          TEXT PRIMARY KEY,
    from_key    TEXT NOT NULL,
    to_key      TEXT NOT NULL,
    frequency   INTEGER NOT NULL,
    last_seen   TEXT NOT NULL,
    confidence  REAL NOT NULL,
    UNIQUE(from_key, to_key)
);
`

// #endregion schema

// #region types

// TransitionEdge is a durable (from, to) observation count.
type TransitionEdge struct {
	FromKey string
	ToKey   string
	Count   int
}

// Store mirrors the predictor's transition table and patterns in SQLite so
// learned workflow habits survive restarts.
type Store struct {
	db *sql.DB
}

// NewStore initializes the predictor tables on an open database handle.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(transitionSchema); err != nil {
		return nil, fmt.Errorf("predict schema: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion types

// #region transitions

// UpsertTransition increments the durable count for (from -> to), creating
// the edge on first observation.
func (s *Store) UpsertTransition(from, to string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO transition_edges (from_key, to_key, count, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(from_key, to_key) DO UPDATE SET
		   count = count + 1, updated_at = excluded.updated_at`,
		from, to, now,
	)
	if err != nil {
		return fmt.Errorf("upsert transition: %w", err)
	}
	return nil
}

// LoadTransitions returns every durable transition edge.
func (s *Store) LoadTransitions() ([]TransitionEdge, error) {
	rows, err := s.db.Query(`SELECT from_key, to_key, count FROM transition_edges`)
	if err != nil {
		return nil, fmt.Errorf("load transitions: %w", err)
	}
	defer rows.Close()

	var edges []TransitionEdge
	for rows.Next() {
		var e TransitionEdge
		if err := rows.Scan(&e.FromKey, &e.ToKey, &e.Count); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// #endregion transitions

// #region patterns

// SavePattern upserts a behavior pattern row.
func (s *Store) SavePattern(pat BehaviorPattern) error {
	_, err := s.db.Exec(
		`INSERT INTO behavior_patterns (id, from_key, to_key, frequency, last_seen, confidence)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(from_key, to_key) DO UPDATE SET
		   frequency = excluded.frequency,
		   last_seen = excluded.last_seen,
		   confidence = excluded.confidence`,
		pat.ID, pat.FromKey, pat.ToKey, pat.Frequency,
		pat.LastSeen.UTC().Format(time.RFC3339Nano), pat.Confidence,
	)
	if err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

// LoadPatterns returns every stored behavior pattern.
func (s *Store) LoadPatterns() ([]BehaviorPattern, error) {
	rows, err := s.db.Query(
		`SELECT id, from_key, to_key, frequency, last_seen, confidence FROM behavior_patterns`,
	)
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	defer rows.Close()

	var pats []BehaviorPattern
	for rows.Next() {
		var pat BehaviorPattern
		var lastSeen string
		if err := rows.Scan(&pat.ID, &pat.FromKey, &pat.ToKey, &pat.Frequency, &lastSeen, &pat.Confidence); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		pat.LastSeen, _ = time.Parse(time.RFC3339Nano, lastSeen)
		pats = append(pats, pat)
	}
	return pats, rows.Err()
}

// #endregion patterns
