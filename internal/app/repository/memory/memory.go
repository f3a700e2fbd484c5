// Package memory keeps run records in process memory.
package memory

import (
	"context"
	"sync"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/repository"
)

// Repository is a map-backed RunRepository. Records are lost on restart.
type Repository struct {
	mu   sync.RWMutex
	runs map[string]repository.RunRecord
}

// New creates an empty Repository.
func New() *Repository {
	return &Repository{runs: make(map[string]repository.RunRecord)}
}

// Save implements repository.RunRepository.
func (r *Repository) Save(_ context.Context, rec repository.RunRecord) error {
	rec.DegradedCards = append([]string(nil), rec.DegradedCards...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[rec.FileID] = rec
	return nil
}

// Get implements repository.RunRepository.
func (r *Repository) Get(_ context.Context, fileID string) (repository.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.runs[fileID]
	if !ok {
		return repository.RunRecord{}, apperrors.NotFound("run", fileID)
	}
	return rec, nil
}

// Close implements repository.RunRepository.
func (r *Repository) Close() error { return nil }
