package box

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"box-skill-whisper/internal/app/cards"
	apperrors "box-skill-whisper/internal/app/errors"
)

// patchOp is one JSON Patch operation.
type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Uploader writes card batches to the boxSkillsCards metadata instance.
type Uploader struct {
	client *Client
}

// NewUploader creates an Uploader.
func NewUploader(client *Client) *Uploader {
	return &Uploader{client: client}
}

// Upload replaces the skill cards of fileID with batch in one write. A new
// instance is created with POST; when one already exists (409) its card list
// is replaced with a single JSON Patch. Nothing is retried. Errors are
// platform write errors.
func (u *Uploader) Upload(ctx context.Context, fileID string, tokens Tokens, batch cards.CardBatch, inv Invocation) error {
	token, err := tokens.ForWrite()
	if err != nil {
		return apperrors.PlatformWrite(err)
	}
	if err := cards.Validate(batch); err != nil {
		return apperrors.PlatformWrite(fmt.Errorf("invalid card batch: %w", err))
	}

	metadata := ToMetadata(batch, inv)
	url := fmt.Sprintf("%s/files/%s/metadata/global/boxSkillsCards", u.client.baseURL, fileID)

	status, err := u.send(ctx, http.MethodPost, url, token, "application/json", metadata)
	if err != nil {
		return apperrors.PlatformWrite(err)
	}
	if status == http.StatusConflict {
		patch := []patchOp{{Op: "replace", Path: "/cards", Value: metadata.Cards}}
		if _, err := u.send(ctx, http.MethodPut, url, token, "application/json-patch+json", patch); err != nil {
			return apperrors.PlatformWrite(err)
		}
	}

	u.client.logger.Info("skill cards uploaded",
		zap.String("file_id", fileID),
		zap.Int("cards", len(metadata.Cards)),
		zap.Bool("replaced", status == http.StatusConflict))
	return nil
}

// send returns the status code for 2xx and 409 responses and an error for
// anything else.
func (u *Uploader) send(ctx context.Context, method, url, token, contentType string, body interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encode metadata: %w", err)
	}
	req, err := u.client.newRequest(ctx, method, url, token, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusConflict && method == http.MethodPost:
		return resp.StatusCode, nil
	default:
		return resp.StatusCode, statusError(resp)
	}
}
