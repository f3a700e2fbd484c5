package services

import (
	"context"

	"box-skill-whisper/internal/api/v1/dto"
	"box-skill-whisper/internal/app/pipeline"
)

// SkillService defines the interface for skill invocation operations
type SkillService interface {
	ProcessWebhook(ctx context.Context, requestID string, req *dto.WebhookRequest) (*dto.WebhookResponse, error)
	GetRun(ctx context.Context, fileID string) (*dto.RunResponse, error)
}

// Processor runs the skill pipeline for one job.
type Processor interface {
	Run(ctx context.Context, job pipeline.Job) (pipeline.Result, error)
}
