// Package archive persists completed repetitions and exercise switches
// to a local sqlite database. The archive is an observability record;
// the evaluation engine never reads it on the frame path.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/flexa/internal/domain/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reps (
	session_id TEXT NOT NULL,
	subject_id TEXT,
	exercise TEXT NOT NULL,
	rep_number INTEGER NOT NULL,
	completed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS reps_session_idx ON reps (session_id);
CREATE TABLE IF NOT EXISTS switches (
	session_id TEXT NOT NULL,
	from_exercise TEXT NOT NULL,
	to_exercise TEXT NOT NULL,
	switched_at TIMESTAMP NOT NULL
);
`

// DB wraps the sqlite handle and provides archive methods.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordRep inserts one completed repetition.
func (d *DB) RecordRep(ctx context.Context, e model.RepEvent) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO reps (session_id, subject_id, exercise, rep_number, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.SubjectID, e.Exercise, e.RepNumber, e.TS.UTC())
	if err != nil {
		return fmt.Errorf("inserting rep: %w", err)
	}
	return nil
}

// RecordSwitch inserts one exercise switch.
func (d *DB) RecordSwitch(ctx context.Context, sessionID, from, to string, at time.Time) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO switches (session_id, from_exercise, to_exercise, switched_at)
		 VALUES (?, ?, ?, ?)`,
		sessionID, from, to, at.UTC())
	if err != nil {
		return fmt.Errorf("inserting switch: %w", err)
	}
	return nil
}

// RepTotals returns the number of archived reps per exercise for a session.
func (d *DB) RepTotals(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT exercise, COUNT(*) FROM reps WHERE session_id = ? GROUP BY exercise`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying rep totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var exercise string
		var count int
		if err := rows.Scan(&exercise, &count); err != nil {
			return nil, fmt.Errorf("scanning rep totals: %w", err)
		}
		totals[exercise] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rep totals: %w", err)
	}
	return totals, nil
}
