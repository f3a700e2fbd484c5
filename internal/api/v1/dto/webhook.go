package dto

import (
	"strings"
	"time"

	apierrors "box-skill-whisper/internal/api/errors"
	"box-skill-whisper/internal/app/repository"
)

// WebhookRequest is the skill invocation event posted by Box.
type WebhookRequest struct {
	Type   string     `json:"type" example:"skill_invocation"`
	ID     string     `json:"id" example:"fd4a2a2c-7c63-4ea9-9e0a-2a2b9e8c0d11"`
	Skill  SkillRef   `json:"skill"`
	Token  TokenSet   `json:"token"`
	Source FileSource `json:"source"`
}

// SkillRef identifies the skill that was invoked.
type SkillRef struct {
	ID string `json:"id" example:"12345"`
}

// TokenSet holds the scoped tokens issued for one invocation.
type TokenSet struct {
	Read  AccessToken `json:"read"`
	Write AccessToken `json:"write"`
}

// AccessToken is a single Box access token.
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// FileSource is the file the skill was invoked on.
type FileSource struct {
	Type string `json:"type" example:"file"`
	ID   string `json:"id" binding:"required" example:"1234567890"`
	Name string `json:"name" example:"interview.mp4"`
	Size int64  `json:"size" example:"10485760"`
}

// Validate implements middleware.Validator.
func (r *WebhookRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.Source.ID) == "" {
		fields["source.id"] = "is required"
	}
	if strings.TrimSpace(r.Token.Read.AccessToken) == "" {
		fields["token.read.access_token"] = "is required"
	}
	if r.Source.Size < 0 {
		fields["source.size"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apierrors.NewValidationError("Validation failed", fields)
	}
	return nil
}

// WebhookResponse is returned once cards were written to the file.
type WebhookResponse struct {
	Message   string   `json:"message" example:"Processing completed successfully"`
	FileID    string   `json:"file_id" example:"1234567890"`
	RequestID string   `json:"request_id"`
	Status    string   `json:"status" example:"completed"`
	Cards     int      `json:"cards" example:"4"`
	Degraded  []string `json:"degraded"`
}

// RunResponse is the recorded outcome of the last run for a file.
type RunResponse struct {
	FileID               string   `json:"file_id"`
	RequestID            string   `json:"request_id"`
	FileName             string   `json:"file_name"`
	Status               string   `json:"status" example:"partial"`
	Error                string   `json:"error,omitempty"`
	DegradedCards        []string `json:"degraded_cards"`
	CardCount            int      `json:"card_count"`
	MediaDurationSeconds float64  `json:"media_duration_seconds"`
	TotalElapsedSeconds  float64  `json:"total_elapsed_seconds"`
	StartedAt            string   `json:"started_at"`
	FinishedAt           string   `json:"finished_at,omitempty"`
}

// NewRunResponse converts a stored run record.
func NewRunResponse(rec repository.RunRecord) *RunResponse {
	resp := &RunResponse{
		FileID:               rec.FileID,
		RequestID:            rec.RequestID,
		FileName:             rec.FileName,
		Status:               rec.Status,
		Error:                rec.Error,
		DegradedCards:        rec.DegradedCards,
		CardCount:            rec.CardCount,
		MediaDurationSeconds: rec.MediaDuration,
		TotalElapsedSeconds:  rec.TotalElapsed,
		StartedAt:            rec.StartedAt.Format(time.RFC3339),
	}
	if resp.DegradedCards == nil {
		resp.DegradedCards = []string{}
	}
	if rec.FinishedAt != nil {
		resp.FinishedAt = rec.FinishedAt.Format(time.RFC3339)
	}
	return resp
}
