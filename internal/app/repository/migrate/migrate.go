// Package migrate creates the run table for the SQL repositories.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

const createSQLite = `CREATE TABLE IF NOT EXISTS skill_runs (
	file_id        TEXT PRIMARY KEY,
	request_id     TEXT NOT NULL,
	file_name      TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	error_message  TEXT NOT NULL DEFAULT '',
	degraded_cards TEXT NOT NULL DEFAULT '',
	card_count     INTEGER NOT NULL DEFAULT 0,
	media_duration REAL NOT NULL DEFAULT 0,
	total_elapsed  REAL NOT NULL DEFAULT 0,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP
)`

const createPostgres = `CREATE TABLE IF NOT EXISTS skill_runs (
	file_id        TEXT PRIMARY KEY,
	request_id     TEXT NOT NULL,
	file_name      TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	error_message  TEXT NOT NULL DEFAULT '',
	degraded_cards TEXT NOT NULL DEFAULT '',
	card_count     INTEGER NOT NULL DEFAULT 0,
	media_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_elapsed  DOUBLE PRECISION NOT NULL DEFAULT 0,
	started_at     TIMESTAMPTZ NOT NULL,
	finished_at    TIMESTAMPTZ
)`

// Schema returns the DDL for driverName.
func Schema(driverName string) (string, error) {
	switch driverName {
	case "sqlite3":
		return createSQLite, nil
	case "postgres":
		return createPostgres, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driverName)
	}
}

// Up creates the run table when it does not exist.
func Up(ctx context.Context, db *sql.DB, driverName string) error {
	ddl, err := Schema(driverName)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create skill_runs: %w", err)
	}
	return nil
}
