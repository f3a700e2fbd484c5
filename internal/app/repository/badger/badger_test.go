package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/repository"
)

func TestRepository_SaveAndGet(t *testing.T) {
	repo, err := OpenInMemory(0)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := repository.RunRecord{
		FileID:        "12345",
		RequestID:     "req-1",
		FileName:      "meeting.mp4",
		Status:        repository.StatusPartial,
		DegradedCards: []string{"keyword-list"},
		CardCount:     4,
		MediaDuration: 61.5,
		TotalElapsed:  7.25,
		StartedAt:     started,
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.DegradedCards, got.DegradedCards)
	assert.True(t, started.Equal(got.StartedAt))

	rec.Status = repository.StatusCompleted
	rec.DegradedCards = nil
	require.NoError(t, repo.Save(ctx, rec))

	got, err = repo.Get(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusCompleted, got.Status)
	assert.Empty(t, got.DegradedCards)
}

func TestRepository_GetMissing(t *testing.T) {
	repo, err := OpenInMemory(time.Hour)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	repo, err := Open(dir, 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, repository.RunRecord{FileID: "a", Status: repository.StatusFailed, Error: "fetch failed: 404"}))
	require.NoError(t, repo.Close())

	repo, err = Open(dir, 0)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "fetch failed: 404", got.Error)
}
