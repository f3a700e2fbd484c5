package config

import "time"

// Default configuration values
const (
	// Environments
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Network defaults
	DefaultHTTPPort = "8080"

	// Timeout defaults
	DefaultOpenAITimeout     = 120 * time.Second
	DefaultFetchTimeout      = 120 * time.Second
	DefaultTranscribeTimeout = 10 * time.Minute
	DefaultAnalysisTimeout   = 90 * time.Second
	DefaultUploadTimeout     = 30 * time.Second
	DefaultBoxTimeout        = 60 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second

	// Model defaults
	DefaultWhisperModel = "whisper-1"
	DefaultChatModel    = "gpt-4-turbo-preview"
	DefaultGeminiModel  = "gemini-2.0-flash"
	DefaultMaxKeywords  = 10

	// LLM providers
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	// Run store drivers
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreBadger   = "badger"

	DefaultSQLitePath = "./data/skill_runs.db"
	DefaultBadgerDir  = "./data/skill_runs"
	DefaultStoreTTL   = 7 * 24 * time.Hour

	DefaultArchiveBucket = "skill-cards"
	DefaultArchivePrefix = "cards"
)

// Defaults returns the configuration used before files and environment are applied.
func Defaults() Config {
	return Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Port:            DefaultHTTPPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		OpenAI: OpenAIConfig{
			WhisperModel: DefaultWhisperModel,
			ChatModel:    DefaultChatModel,
			Timeout:      DefaultOpenAITimeout,
		},
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
		LLMProvider: ProviderOpenAI,
		MaxKeywords: DefaultMaxKeywords,
		Box: BoxConfig{
			BaseURL: "https://api.box.com/2.0",
			SkillID: "box-skill-whisper",
			Timeout: DefaultBoxTimeout,
		},
		Pipeline: PipelineConfig{
			ParallelAnalysis:  true,
			FetchTimeout:      DefaultFetchTimeout,
			TranscribeTimeout: DefaultTranscribeTimeout,
			AnalysisTimeout:   DefaultAnalysisTimeout,
			UploadTimeout:     DefaultUploadTimeout,
		},
		Store: StoreConfig{
			Driver: StoreMemory,
			TTL:    DefaultStoreTTL,
		},
		Archive: ArchiveConfig{
			Bucket: DefaultArchiveBucket,
			Prefix: DefaultArchivePrefix,
			UseSSL: true,
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
	}
}
