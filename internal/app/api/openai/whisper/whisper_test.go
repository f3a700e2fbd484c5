package whisper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaiapi "box-skill-whisper/internal/app/api/openai"
	apperrors "box-skill-whisper/internal/app/errors"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "english",
  "duration": 9.5,
  "text": "Hello, my name is William. I work at Box.",
  "segments": [
    {"id": 0, "seek": 0, "start": 0.0, "end": 4.2, "text": " Hello, my name is William.", "tokens": [1, 2], "temperature": 0.0, "avg_logprob": -0.2, "compression_ratio": 1.1, "no_speech_prob": 0.01},
    {"id": 1, "seek": 0, "start": 4.2, "end": 9.5, "text": " I work at Box.", "tokens": [3], "temperature": 0.0, "avg_logprob": -0.3, "compression_ratio": 1.0, "no_speech_prob": 0.02}
  ]
}`

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *RemoteTranscriber {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := openaiapi.NewClient(openaiapi.ClientConfig{APIKey: "test-api-key", BaseURL: server.URL + "/v1"})
	return NewRemoteTranscriber(client)
}

func createTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake mp3"), 0o644))
	return path
}

func TestRemoteTranscriber_Transcribe(t *testing.T) {
	rt := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		_, _, err := r.FormFile("file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(verboseResponse))
	})

	transcript, err := rt.Transcribe(context.Background(), createTempAudio(t))
	require.NoError(t, err)

	assert.Equal(t, "english", transcript.Language)
	assert.InDelta(t, 9.5, transcript.Duration, 1e-9)
	require.Len(t, transcript.Segments, 2)
	assert.Equal(t, " Hello, my name is William.", transcript.Segments[0].Text)
	assert.InDelta(t, 4.2, transcript.Segments[1].Start, 1e-9)
	assert.Equal(t, -1, transcript.CheckOrder())
}

func TestRemoteTranscriber_APIErrors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`, "401"},
		{"rate limit", http.StatusTooManyRequests, `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`, "rate limit"},
		{"server error", http.StatusInternalServerError, `{"error": {"message": "Internal server error", "type": "server_error"}}`, "500"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := rt.Transcribe(context.Background(), createTempAudio(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
			assert.True(t, errors.Is(err, apperrors.ErrTranscription))
			assert.False(t, apperrors.IsFatal(err))

			var apiErr *openai.APIError
			assert.True(t, errors.As(err, &apiErr))
		})
	}
}

func TestRemoteTranscriber_MissingFile(t *testing.T) {
	rt := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	_, err := rt.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTranscription))
}

func TestRemoteTranscriber_Options(t *testing.T) {
	rt := NewRemoteTranscriber(nil, WithModel("whisper-large"), WithLanguage("en"), WithModel(""))
	assert.Equal(t, "whisper-large", rt.Model())
	assert.Equal(t, "en", rt.language)
}
