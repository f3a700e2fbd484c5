package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "box-skill-whisper/internal/app/errors"
)

// CommonDB implements RunRepository on database/sql for SQLite and PostgreSQL.
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

var runColumns = []string{
	"file_id", "request_id", "file_name", "status", "error_message", "degraded_cards",
	"card_count", "media_duration", "total_elapsed", "started_at", "finished_at",
}

// Save upserts rec keyed by file id.
func (c *CommonDB) Save(ctx context.Context, rec RunRecord) error {
	params := make([]string, len(runColumns))
	updates := make([]string, 0, len(runColumns)-1)
	for i, col := range runColumns {
		params[i] = c.placeholders(i + 1)
		if col != "file_id" {
			updates = append(updates, col+" = excluded."+col)
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO skill_runs (%s) VALUES (%s) ON CONFLICT (file_id) DO UPDATE SET %s`,
		strings.Join(runColumns, ", "),
		strings.Join(params, ", "),
		strings.Join(updates, ", "),
	)

	var finished sql.NullTime
	if rec.FinishedAt != nil {
		finished = sql.NullTime{Time: *rec.FinishedAt, Valid: true}
	}

	_, err := c.db.ExecContext(ctx, query,
		rec.FileID, rec.RequestID, rec.FileName, rec.Status, rec.Error,
		strings.Join(rec.DegradedCards, ","), rec.CardCount,
		rec.MediaDuration, rec.TotalElapsed, rec.StartedAt, finished,
	)
	if err != nil {
		return fmt.Errorf("upsert run failed: %w", err)
	}
	return nil
}

// Get returns the run recorded for fileID.
func (c *CommonDB) Get(ctx context.Context, fileID string) (RunRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM skill_runs WHERE file_id = %s`,
		strings.Join(runColumns, ", "),
		c.placeholders(1),
	)

	var (
		rec      RunRecord
		degraded string
		finished sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, query, fileID).Scan(
		&rec.FileID,
		&rec.RequestID,
		&rec.FileName,
		&rec.Status,
		&rec.Error,
		&degraded,
		&rec.CardCount,
		&rec.MediaDuration,
		&rec.TotalElapsed,
		&rec.StartedAt,
		&finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, apperrors.NotFound("run", fileID)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("query run failed: %w", err)
	}

	if degraded != "" {
		rec.DegradedCards = strings.Split(degraded, ",")
	}
	if finished.Valid {
		t := finished.Time
		rec.FinishedAt = &t
	}
	return rec, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
