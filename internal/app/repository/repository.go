// Package repository records the outcome of each processed file.
package repository

import (
	"context"
	"time"
)

// Run statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// RunRecord is the latest processing run of one file.
type RunRecord struct {
	FileID        string     `json:"file_id"`
	RequestID     string     `json:"request_id"`
	FileName      string     `json:"file_name"`
	Status        string     `json:"status"`
	Error         string     `json:"error,omitempty"`
	DegradedCards []string   `json:"degraded_cards,omitempty"`
	CardCount     int        `json:"card_count"`
	MediaDuration float64    `json:"media_duration_seconds"`
	TotalElapsed  float64    `json:"total_elapsed_seconds"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// RunRepository stores one RunRecord per file id; Save replaces any
// earlier record of the same file.
type RunRepository interface {
	Save(ctx context.Context, rec RunRecord) error
	// Get returns an error matching errors.ErrNotFound for unknown files.
	Get(ctx context.Context, fileID string) (RunRecord, error)
	Close() error
}
