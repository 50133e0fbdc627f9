package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			command           TEXT NOT NULL,
			plan_name         TEXT,
			plan_fingerprint  TEXT NOT NULL,
			what_if           TEXT,
			target_fi_age     INTEGER,
			achievable_fi_age INTEGER,
			confidence        TEXT,
			buffer_years      INTEGER,
			terminal_balance  TEXT,
			has_shortfall     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(plan_fingerprint)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var achievable sql.NullInt64
	if run.AchievableFIAge != nil {
		achievable = sql.NullInt64{Int64: int64(*run.AchievableFIAge), Valid: true}
	}
	_, err := r.db.Exec(`INSERT INTO runs
		(id, timestamp, command, plan_name, plan_fingerprint, what_if,
		 target_fi_age, achievable_fi_age, confidence, buffer_years,
		 terminal_balance, has_shortfall)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.RecordedAt.Unix(), run.Command, run.PlanName, run.PlanFingerprint, run.WhatIf,
		run.TargetFIAge, achievable, run.Confidence, run.BufferYears,
		run.TerminalBalance, run.HasShortfall,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns recorded runs, newest first.
func (r *SQLiteRecorder) ListRuns(filter RunFilter) ([]RunRecord, error) {
	query := `SELECT id, timestamp, command, plan_name, plan_fingerprint, what_if,
		target_fi_age, achievable_fi_age, confidence, buffer_years,
		terminal_balance, has_shortfall
		FROM runs`
	var args []any
	if filter.PlanFingerprint != "" {
		query += ` WHERE plan_fingerprint = ?`
		args = append(args, filter.PlanFingerprint)
	}
	query += ` ORDER BY timestamp DESC, rowid DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run        RunRecord
			ts         int64
			achievable sql.NullInt64
		)
		if err := rows.Scan(&run.ID, &ts, &run.Command, &run.PlanName, &run.PlanFingerprint, &run.WhatIf,
			&run.TargetFIAge, &achievable, &run.Confidence, &run.BufferYears,
			&run.TerminalBalance, &run.HasShortfall); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.RecordedAt = time.Unix(ts, 0).UTC()
		if achievable.Valid {
			age := int(achievable.Int64)
			run.AchievableFIAge = &age
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
