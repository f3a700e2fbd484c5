package services

import (
	"context"
	stderrors "errors"

	"box-skill-whisper/internal/api/errors"
	"box-skill-whisper/internal/api/v1/dto"
	"box-skill-whisper/internal/app/box"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
	"box-skill-whisper/internal/app/pipeline"
	"box-skill-whisper/internal/app/repository"
)

// skillService implements SkillService
type skillService struct {
	processor Processor
	runs      repository.RunRepository
	skillID   string
}

// NewSkillService creates a new skill service. skillID is used when the
// invocation does not name its skill.
func NewSkillService(processor Processor, runs repository.RunRepository, skillID string) SkillService {
	return &skillService{
		processor: processor,
		runs:      runs,
		skillID:   skillID,
	}
}

// ProcessWebhook runs the pipeline for one invocation and reports the cards written.
func (s *skillService) ProcessWebhook(ctx context.Context, requestID string, req *dto.WebhookRequest) (*dto.WebhookResponse, error) {
	job := s.jobFromWebhook(requestID, req)

	result, err := s.processor.Run(ctx, job)
	if err != nil {
		return nil, errors.FromPipelineError(err)
	}

	degraded := make([]string, 0, len(result.Record.DegradedCards))
	degraded = append(degraded, result.Record.DegradedCards...)

	return &dto.WebhookResponse{
		Message:   "Processing completed successfully",
		FileID:    job.Request.FileID,
		RequestID: requestID,
		Status:    result.Record.Status,
		Cards:     len(result.Batch.Cards),
		Degraded:  degraded,
	}, nil
}

// GetRun returns the last recorded run for a file.
func (s *skillService) GetRun(ctx context.Context, fileID string) (*dto.RunResponse, error) {
	rec, err := s.runs.Get(ctx, fileID)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNotFound) {
			return nil, errors.NewNotFoundError("Run")
		}
		return nil, errors.NewInternalError("Failed to load run")
	}
	return dto.NewRunResponse(rec), nil
}

func (s *skillService) jobFromWebhook(requestID string, req *dto.WebhookRequest) pipeline.Job {
	skillID := req.Skill.ID
	if skillID == "" {
		skillID = s.skillID
	}
	return pipeline.Job{
		RequestID:    requestID,
		InvocationID: req.ID,
		SkillID:      skillID,
		Request: model.ProcessingRequest{
			FileID:    req.Source.ID,
			FileName:  req.Source.Name,
			SizeBytes: req.Source.Size,
		},
		Tokens: box.Tokens{
			Read:  req.Token.Read.AccessToken,
			Write: req.Token.Write.AccessToken,
		},
	}
}
