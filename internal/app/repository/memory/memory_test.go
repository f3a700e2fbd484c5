package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/repository"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	r := New()
	var _ repository.RunRepository = r

	_, err := r.Get(ctx, "42")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	degraded := []string{"transcript"}
	require.NoError(t, r.Save(ctx, repository.RunRecord{FileID: "42", Status: repository.StatusProcessing}))
	require.NoError(t, r.Save(ctx, repository.RunRecord{FileID: "42", Status: repository.StatusPartial, DegradedCards: degraded}))
	degraded[0] = "mutated"

	got, err := r.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusPartial, got.Status)
	assert.Equal(t, []string{"transcript"}, got.DegradedCards)
	assert.NoError(t, r.Close())
}
