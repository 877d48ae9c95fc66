// Package event appends and reads the ledger's event log. The log is an
// audit trail, not a source of truth: replaying it does not rebuild record
// state.
package event

import (
	"database/sql"
	"fmt"
	"time"
)

// #region append
// Append writes one entry to the event_log table.
func Append(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO event_log (event_type, record_id, actor, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(entry.Type),
		entry.RecordID,
		nullIfEmpty(entry.Actor),
		nullIfEmpty(entry.Details),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// #endregion append

// #region list
// List returns the most recent entries, newest first.
func List(db *sql.DB, limit int) ([]Entry, error) {
	return query(db,
		`SELECT id, event_type, record_id, actor, details, created_at
		 FROM event_log ORDER BY id DESC LIMIT ?`, limit)
}

// ListFor returns the most recent entries for one record, newest first.
func ListFor(db *sql.DB, recordID string, limit int) ([]Entry, error) {
	return query(db,
		`SELECT id, event_type, record_id, actor, details, created_at
		 FROM event_log WHERE record_id = ? ORDER BY id DESC LIMIT ?`, recordID, limit)
}

func query(db *sql.DB, q string, args ...interface{}) ([]Entry, error) {
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typ, createdStr string
		var actor, details sql.NullString
		if err := rows.Scan(&e.ID, &typ, &e.RecordID, &actor, &details, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = Type(typ)
		if actor.Valid {
			e.Actor = actor.String
		}
		if details.Valid {
			e.Details = details.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
