package whisper

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	openaiapi "box-skill-whisper/internal/app/api/openai"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
)

// RemoteTranscriber transcribes audio with the OpenAI Whisper API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.Logger
}

// Option configures a RemoteTranscriber.
type Option func(*RemoteTranscriber)

// WithModel overrides the transcription model.
func WithModel(name string) Option {
	return func(rt *RemoteTranscriber) {
		if name != "" {
			rt.model = name
		}
	}
}

// WithLanguage pins the spoken language (ISO-639-1) instead of auto-detection.
func WithLanguage(lang string) Option {
	return func(rt *RemoteTranscriber) { rt.language = lang }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(rt *RemoteTranscriber) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, opts ...Option) *RemoteTranscriber {
	rt := &RemoteTranscriber{client: client, model: openai.Whisper1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Model returns the transcription model name.
func (rt *RemoteTranscriber) Model() string { return rt.model }

// Transcribe sends the audio file at path and returns the timed segments.
// Errors are transcription errors.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	start := time.Now()
	req := openai.AudioRequest{
		Model:                  rt.model,
		FilePath:               path,
		Language:               rt.language,
		Format:                 openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{openai.TranscriptionTimestampGranularitySegment},
	}

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return model.Transcript{}, apperrors.Transcription(openaiapi.ClassifyError(err))
	}

	transcript := model.Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: make([]model.TranscriptSegment, 0, len(resp.Segments)),
	}
	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	rt.logger.Info("transcription completed",
		zap.String("model", rt.model),
		zap.String("language", transcript.Language),
		zap.Int("segments", len(transcript.Segments)),
		zap.Duration("elapsed", time.Since(start)))
	return transcript, nil
}
