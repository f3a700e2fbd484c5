package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "box-skill-whisper/internal/app/errors"
)

// Config is the complete service configuration. It is built once at startup
// and passed explicitly to each constructor.
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Server      ServerConfig   `yaml:"server"`
	OpenAI      OpenAIConfig   `yaml:"openai"`
	Gemini      GeminiConfig   `yaml:"gemini"`
	LLMProvider string         `yaml:"llm_provider"`
	MaxKeywords int            `yaml:"max_keywords"`
	Box         BoxConfig      `yaml:"box"`
	Pipeline    PipelineConfig `yaml:"pipeline"`
	Store       StoreConfig    `yaml:"store"`
	Archive     ArchiveConfig  `yaml:"archive"`
	FFmpeg      FFmpegConfig   `yaml:"ffmpeg"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OpenAIConfig configures transcription and, with the openai provider, analysis.
type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	WhisperModel string        `yaml:"whisper_model"`
	Language     string        `yaml:"language,omitempty"`
	ChatModel    string        `yaml:"chat_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	// APIKeys are rotated when one is rate limited.
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type BoxConfig struct {
	BaseURL string        `yaml:"base_url"`
	SkillID string        `yaml:"skill_id"`
	Timeout time.Duration `yaml:"timeout"`
	TempDir string        `yaml:"temp_dir,omitempty"`
}

type PipelineConfig struct {
	ParallelAnalysis  bool          `yaml:"parallel_analysis"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout"`
	AnalysisTimeout   time.Duration `yaml:"analysis_timeout"`
	UploadTimeout     time.Duration `yaml:"upload_timeout"`
}

// StoreConfig selects the run repository. DSN is a file path for sqlite, a
// connection string for postgres, a redis:// URL for redis and a directory
// for badger.
type StoreConfig struct {
	Driver string        `yaml:"driver"`
	DSN    string        `yaml:"dsn,omitempty"`
	TTL    time.Duration `yaml:"ttl,omitempty"`
}

// ArchiveConfig enables the card archive when Endpoint is set.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// LoadEnv loads environment variables from the first .env file found.
// Variables already set in the process environment win. It returns the
// loaded path, or "" when no file exists.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// LoadFile overlays the YAML file at path onto cfg. ${VAR} references are
// expanded from the environment before parsing.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration: defaults, then the YAML file named by
// SKILL_CONFIG, then environment variables. The result is validated.
func Load() (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("SKILL_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Server.Port, "PORT")

	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.WhisperModel, "WHISPER_MODEL")
	setString(&cfg.OpenAI.Language, "WHISPER_LANGUAGE")
	setString(&cfg.OpenAI.ChatModel, "OPENAI_CHAT_MODEL")

	if keys := os.Getenv("GEMINI_API_KEY"); keys != "" {
		cfg.Gemini.APIKeys = splitList(keys)
	}
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.LLMProvider, "LLM_PROVIDER")

	setString(&cfg.Box.BaseURL, "BOX_API_URL")
	setString(&cfg.Box.SkillID, "BOX_SKILL_ID")
	setString(&cfg.Box.TempDir, "TEMP_DIR")

	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.DSN, "STORE_DSN")

	setString(&cfg.Archive.Endpoint, "ARCHIVE_ENDPOINT")
	setString(&cfg.Archive.AccessKey, "ARCHIVE_ACCESS_KEY")
	setString(&cfg.Archive.SecretKey, "ARCHIVE_SECRET_KEY")
	setString(&cfg.Archive.Bucket, "ARCHIVE_BUCKET")
	setString(&cfg.Archive.Prefix, "ARCHIVE_PREFIX")

	setString(&cfg.FFmpeg.FFmpegPath, "FFMPEG_PATH")
	setString(&cfg.FFmpeg.FFprobePath, "FFPROBE_PATH")

	if err := setInt(&cfg.MaxKeywords, "MAX_KEYWORDS"); err != nil {
		return err
	}
	for key, target := range map[string]*bool{
		"PIPELINE_PARALLEL_ANALYSIS": &cfg.Pipeline.ParallelAnalysis,
		"ARCHIVE_USE_SSL":            &cfg.Archive.UseSSL,
	} {
		if err := setBool(target, key); err != nil {
			return err
		}
	}
	for key, target := range map[string]*time.Duration{
		"OPENAI_TIMEOUT":     &cfg.OpenAI.Timeout,
		"BOX_TIMEOUT":        &cfg.Box.Timeout,
		"FETCH_TIMEOUT":      &cfg.Pipeline.FetchTimeout,
		"TRANSCRIBE_TIMEOUT": &cfg.Pipeline.TranscribeTimeout,
		"ANALYSIS_TIMEOUT":   &cfg.Pipeline.AnalysisTimeout,
		"UPLOAD_TIMEOUT":     &cfg.Pipeline.UploadTimeout,
		"STORE_TTL":          &cfg.Store.TTL,
		"SHUTDOWN_TIMEOUT":   &cfg.Server.ShutdownTimeout,
	} {
		if err := setDuration(target, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate fails fast on configuration the service cannot start with.
func (c *Config) Validate() error {
	// Transcription always goes through OpenAI.
	if err := ValidateAPIKey(c.OpenAI.APIKey, "OpenAI"); err != nil {
		return apperrors.Wrap(apperrors.ErrMissingAPIKey, err.Error())
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return apperrors.Wrap(apperrors.ErrMissingAPIKey, "GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		for _, key := range c.Gemini.APIKeys {
			if err := ValidateAPIKey(key, "Gemini"); err != nil {
				return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
			}
		}
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.OpenAI.BaseURL != "" {
		if err := ValidateURL(c.OpenAI.BaseURL, "OpenAI"); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
		}
	}
	if err := ValidateURL(c.Box.BaseURL, "Box API"); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}
	if err := ValidatePort(c.Server.Port, "HTTP"); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}
	if c.MaxKeywords <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "MAX_KEYWORDS must be positive")
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"OpenAI", c.OpenAI.Timeout},
		{"Box", c.Box.Timeout},
		{"fetch", c.Pipeline.FetchTimeout},
		{"transcribe", c.Pipeline.TranscribeTimeout},
		{"analysis", c.Pipeline.AnalysisTimeout},
		{"upload", c.Pipeline.UploadTimeout},
	}
	for _, t := range timeouts {
		if err := ValidateTimeout(t.value, t.name); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
		}
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = DefaultSQLitePath
		}
	case StoreBadger:
		if c.Store.DSN == "" {
			c.Store.DSN = DefaultBadgerDir
		}
	case StorePostgres, StoreRedis:
		if c.Store.DSN == "" {
			return apperrors.Wrapf(apperrors.ErrInvalidConfig, "STORE_DSN is required for the %s store", c.Store.Driver)
		}
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Archive.Endpoint != "" && c.Archive.Bucket == "" {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "ARCHIVE_BUCKET is required when ARCHIVE_ENDPOINT is set")
	}
	return nil
}

// Models returns the model used by each AI service, for diagnostics.
func (c *Config) Models() map[string]string {
	analysisModel := c.OpenAI.ChatModel
	if c.LLMProvider == ProviderGemini {
		analysisModel = c.Gemini.Model
	}
	return map[string]string{
		"transcription": c.OpenAI.WhisperModel,
		"summary":       analysisModel,
		"keywords":      analysisModel,
	}
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func setString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "%s must be an integer", key)
	}
	*target = n
	return nil
}

func setBool(target *bool, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "%s must be a boolean", key)
	}
	*target = b
	return nil
}

func setDuration(target *time.Duration, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "%s must be a duration such as 30s", key)
	}
	*target = d
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
