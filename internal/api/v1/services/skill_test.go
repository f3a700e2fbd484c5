package services

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"box-skill-whisper/internal/api/errors"
	"box-skill-whisper/internal/api/v1/dto"
	"box-skill-whisper/internal/app/box"
	"box-skill-whisper/internal/app/cards"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/pipeline"
	"box-skill-whisper/internal/app/repository"
	"box-skill-whisper/internal/app/repository/memory"
)

type processorFunc func(ctx context.Context, job pipeline.Job) (pipeline.Result, error)

func (f processorFunc) Run(ctx context.Context, job pipeline.Job) (pipeline.Result, error) {
	return f(ctx, job)
}

func webhookRequest() *dto.WebhookRequest {
	return &dto.WebhookRequest{
		Type:  "skill_invocation",
		ID:    "inv-1",
		Token: dto.TokenSet{Read: dto.AccessToken{AccessToken: "r"}, Write: dto.AccessToken{AccessToken: "w"}},
		Source: dto.FileSource{
			Type: "file",
			ID:   "42",
			Name: "talk.mp4",
			Size: 1024,
		},
	}
}

func TestSkillService_ProcessWebhook(t *testing.T) {
	var got pipeline.Job
	processor := processorFunc(func(_ context.Context, job pipeline.Job) (pipeline.Result, error) {
		got = job
		return pipeline.Result{
			Batch: cards.CardBatch{Cards: make([]cards.Card, 4)},
			Record: repository.RunRecord{
				Status:        repository.StatusPartial,
				DegradedCards: []string{"status-summary"},
			},
		}, nil
	})
	svc := NewSkillService(processor, memory.New(), "default-skill")

	resp, err := svc.ProcessWebhook(context.Background(), "req-1", webhookRequest())
	require.NoError(t, err)

	assert.Equal(t, "default-skill", got.SkillID)
	assert.Equal(t, "inv-1", got.InvocationID)
	assert.Equal(t, box.Tokens{Read: "r", Write: "w"}, got.Tokens)
	assert.Equal(t, "42", got.Request.FileID)
	assert.Equal(t, int64(1024), got.Request.SizeBytes)

	assert.Equal(t, "42", resp.FileID)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, 4, resp.Cards)
	assert.Equal(t, repository.StatusPartial, resp.Status)
	assert.Equal(t, []string{"status-summary"}, resp.Degraded)
}

func TestSkillService_ProcessWebhookFatal(t *testing.T) {
	processor := processorFunc(func(context.Context, pipeline.Job) (pipeline.Result, error) {
		return pipeline.Result{}, apperrors.Conversion(stderrors.New("no audio stream"))
	})
	svc := NewSkillService(processor, memory.New(), "")

	_, err := svc.ProcessWebhook(context.Background(), "req-1", webhookRequest())
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
	assert.Equal(t, apperrors.StageConvert, apiErr.Stage)
}

func TestSkillService_GetRun(t *testing.T) {
	runs := memory.New()
	finished := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, runs.Save(context.Background(), repository.RunRecord{
		FileID:     "42",
		Status:     repository.StatusCompleted,
		CardCount:  4,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
	}))
	svc := NewSkillService(nil, runs, "")

	resp, err := svc.GetRun(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, repository.StatusCompleted, resp.Status)
	assert.Equal(t, "2025-01-02T03:04:05Z", resp.FinishedAt)
	assert.Equal(t, []string{}, resp.DegradedCards)

	_, err = svc.GetRun(context.Background(), "missing")
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, errors.KindNotFound, apiErr.Kind)
}
