// Package audit records classification decisions and predictions into a
// decision_log table so any adaptation the interface makes can be traced
// back to the evidence that drove it.
package audit

import (
	"database/sql"
	"fmt"
	"time"
)

// #region entry

// DecisionKind labels what a decision_log row records.
type DecisionKind string

const (
	KindSnapshotCommit DecisionKind = "snapshot_commit"
	KindSnapshotRetain DecisionKind = "snapshot_retain"
	KindPrediction     DecisionKind = "prediction"
	KindDispatch       DecisionKind = "dispatch"
)

// Entry is a single row in the decision_log table.
type Entry struct {
	Kind        DecisionKind
	SnapshotID  string
	StateKey    string
	Detail      string // JSON payload, shape depends on Kind
	Reason      string
	CreatedAt   time.Time
}

// #endregion entry

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS decision_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	kind        TEXT NOT NULL,
	snapshot_id TEXT,
	state_key   TEXT,
	detail      TEXT,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region log

// Log implements the engine's Telemetry port on a SQLite database.
type Log struct {
	db *sql.DB
}

// NewLog runs migrations on the shared database and returns the logger.
func NewLog(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate decision log: %w", err)
	}
	return &Log{db: db}, nil
}

// Record writes one decision entry. A zero CreatedAt is stamped with the
// current time.
func (l *Log) Record(entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO decision_log (kind, snapshot_id, state_key, detail, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.Kind),
		nullIfEmpty(entry.SnapshotID),
		nullIfEmpty(entry.StateKey),
		nullIfEmpty(entry.Detail),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (l *Log) Recent(limit int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT kind, snapshot_id, state_key, detail, reason, created_at
		 FROM decision_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, createdStr string
		var snapshotID, stateKey, detail, reason sql.NullString
		if err := rows.Scan(&kind, &snapshotID, &stateKey, &detail, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Kind = DecisionKind(kind)
		e.SnapshotID = snapshotID.String
		e.StateKey = stateKey.String
		e.Detail = detail.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion log

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
