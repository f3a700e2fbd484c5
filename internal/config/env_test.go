package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "box-skill-whisper/internal/app/errors"
)

const (
	testOpenAIKey = "sk-1234567890abcdef1234567890abcdef"
	testGeminiKey = "AIzaTest-1234567890abcdef1234567890"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SKILL_CONFIG", "APP_ENV", "LOG_LEVEL", "PORT",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "WHISPER_MODEL", "WHISPER_LANGUAGE", "OPENAI_CHAT_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "LLM_PROVIDER", "MAX_KEYWORDS",
		"BOX_API_URL", "BOX_SKILL_ID", "TEMP_DIR",
		"STORE_DRIVER", "STORE_DSN", "STORE_TTL",
		"ARCHIVE_ENDPOINT", "ARCHIVE_ACCESS_KEY", "ARCHIVE_SECRET_KEY", "ARCHIVE_BUCKET", "ARCHIVE_PREFIX", "ARCHIVE_USE_SSL",
		"FFMPEG_PATH", "FFPROBE_PATH", "PIPELINE_PARALLEL_ANALYSIS",
		"OPENAI_TIMEOUT", "BOX_TIMEOUT", "FETCH_TIMEOUT", "TRANSCRIBE_TIMEOUT", "ANALYSIS_TIMEOUT", "UPLOAD_TIMEOUT", "SHUTDOWN_TIMEOUT",
	}
	for _, key := range keys {
		original, ok := os.LookupEnv(key)
		os.Unsetenv(key)
		if ok {
			t.Cleanup(func() { os.Setenv(key, original) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
	}
	// run in an empty directory so no .env file is picked up
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", testOpenAIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testOpenAIKey, cfg.OpenAI.APIKey)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, DefaultHTTPPort, cfg.Server.Port)
	assert.True(t, cfg.Pipeline.ParallelAnalysis)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, DefaultMaxKeywords, cfg.MaxKeywords)
	assert.Equal(t, map[string]string{
		"transcription": DefaultWhisperModel,
		"summary":       DefaultChatModel,
		"keywords":      DefaultChatModel,
	}, cfg.Models())
}

func TestLoad_MissingOpenAIKeyIsFatal(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingAPIKey))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", testOpenAIKey)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", testGeminiKey+", "+testGeminiKey+"2")
	t.Setenv("PIPELINE_PARALLEL_ANALYSIS", "false")
	t.Setenv("TRANSCRIBE_TIMEOUT", "4m")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("MAX_KEYWORDS", "5")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{testGeminiKey, testGeminiKey + "2"}, cfg.Gemini.APIKeys)
	assert.False(t, cfg.Pipeline.ParallelAnalysis)
	assert.Equal(t, 4*time.Minute, cfg.Pipeline.TranscribeTimeout)
	assert.Equal(t, DefaultSQLitePath, cfg.Store.DSN)
	assert.Equal(t, 5, cfg.MaxKeywords)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DefaultGeminiModel, cfg.Models()["summary"])
}

func TestLoad_BadgerDefaultsDirectory(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", testOpenAIKey)
	t.Setenv("STORE_DRIVER", "badger")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBadger, cfg.Store.Driver)
	assert.Equal(t, DefaultBadgerDir, cfg.Store.DSN)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", testOpenAIKey)
	t.Setenv("MINIO_SECRET", "s3cret")

	path := filepath.Join(t.TempDir(), "skill.yaml")
	content := `
environment: production
openai:
  chat_model: gpt-4o-mini
pipeline:
  analysis_timeout: 45s
store:
  driver: redis
  dsn: redis://localhost:6379/0
archive:
  endpoint: localhost:9000
  secret_key: ${MINIO_SECRET}
  bucket: audit
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SKILL_CONFIG", path)
	// environment wins over the file
	t.Setenv("OPENAI_CHAT_MODEL", "gpt-4o")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "gpt-4o", cfg.OpenAI.ChatModel)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.AnalysisTimeout)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, "s3cret", cfg.Archive.SecretKey)
	assert.Equal(t, "audit", cfg.Archive.Bucket)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultWhisperModel, cfg.OpenAI.WhisperModel)
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name          string
		env           map[string]string
		errorContains string
	}{
		{
			name:          "gemini provider without key",
			env:           map[string]string{"LLM_PROVIDER": "gemini"},
			errorContains: "GEMINI_API_KEY is required",
		},
		{
			name:          "unknown provider",
			env:           map[string]string{"LLM_PROVIDER": "claude"},
			errorContains: "unknown LLM_PROVIDER",
		},
		{
			name:          "bad duration",
			env:           map[string]string{"FETCH_TIMEOUT": "soon"},
			errorContains: "FETCH_TIMEOUT must be a duration",
		},
		{
			name:          "bad boolean",
			env:           map[string]string{"PIPELINE_PARALLEL_ANALYSIS": "maybe"},
			errorContains: "must be a boolean",
		},
		{
			name:          "postgres without dsn",
			env:           map[string]string{"STORE_DRIVER": "postgres"},
			errorContains: "STORE_DSN is required",
		},
		{
			name:          "unknown store",
			env:           map[string]string{"STORE_DRIVER": "mongo"},
			errorContains: "unknown STORE_DRIVER",
		},
		{
			name:          "invalid port",
			env:           map[string]string{"PORT": "99999"},
			errorContains: "port invalid",
		},
		{
			name:          "malformed OpenAI key",
			env:           map[string]string{"OPENAI_API_KEY": "invalid-key"},
			errorContains: "must start with 'sk-'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENAI_API_KEY", testOpenAIKey)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadEnv_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("OPENAI_API_KEY="+testOpenAIKey+"\nBOX_SKILL_ID=from-dotenv\n"), 0o644))

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, testOpenAIKey, os.Getenv("OPENAI_API_KEY"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Box.SkillID)
}
