package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"box-skill-whisper/internal/api/server"
	"box-skill-whisper/internal/api/v1/services"
	"box-skill-whisper/internal/app/analysis"
	"box-skill-whisper/internal/app/api/gemini"
	openaiapi "box-skill-whisper/internal/app/api/openai"
	"box-skill-whisper/internal/app/api/openai/chat"
	"box-skill-whisper/internal/app/api/openai/whisper"
	"box-skill-whisper/internal/app/archive"
	"box-skill-whisper/internal/app/audio"
	"box-skill-whisper/internal/app/box"
	"box-skill-whisper/internal/app/pipeline"
	"box-skill-whisper/internal/app/repository"
	"box-skill-whisper/internal/app/repository/badger"
	"box-skill-whisper/internal/app/repository/memory"
	"box-skill-whisper/internal/app/repository/pg"
	"box-skill-whisper/internal/app/repository/redis"
	"box-skill-whisper/internal/app/repository/sqlite"
	"box-skill-whisper/internal/config"
)

// PipelineSet provides a fully wired *pipeline.Pipeline.
var PipelineSet = wire.NewSet(
	provideOpenAIClient,
	provideTranscriber,
	provideAnalyzer,
	provideBoxClient,
	provideFetcher,
	provideUploader,
	provideExtractor,
	provideRunRepository,
	provideArchive,
	provideRegistry,
	provideMetrics,
	provideDeps,
	providePipelineConfig,
	pipeline.New,
)

// ServerSet provides the HTTP server on top of PipelineSet.
var ServerSet = wire.NewSet(
	PipelineSet,
	provideSkillService,
	provideServer,
)

func provideOpenAIClient(cfg *config.Config) *goopenai.Client {
	return openaiapi.NewClient(openaiapi.ClientConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})
}

// provideTranscriber with openai's remote whisper service
func provideTranscriber(client *goopenai.Client, cfg *config.Config, logger *zap.Logger) *whisper.RemoteTranscriber {
	return whisper.NewRemoteTranscriber(client,
		whisper.WithModel(cfg.OpenAI.WhisperModel),
		whisper.WithLanguage(cfg.OpenAI.Language),
		whisper.WithLogger(logger),
	)
}

// provideAnalyzer selects the summary and keyword provider from LLM_PROVIDER.
func provideAnalyzer(ctx context.Context, cfg *config.Config, client *goopenai.Client, logger *zap.Logger) (analysis.Analyzer, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return gemini.NewAnalyzer(ctx, cfg.Gemini.APIKeys, cfg.Gemini.Model, cfg.MaxKeywords, logger)
	default:
		return chat.NewAnalyzer(client, cfg.OpenAI.ChatModel, cfg.MaxKeywords), nil
	}
}

func provideBoxClient(cfg *config.Config, logger *zap.Logger) *box.Client {
	return box.NewClient(box.Config{BaseURL: cfg.Box.BaseURL, Timeout: cfg.Box.Timeout}, logger)
}

func provideFetcher(client *box.Client, cfg *config.Config) *box.Fetcher {
	return box.NewFetcher(client, cfg.Box.TempDir)
}

func provideUploader(client *box.Client) *box.Uploader {
	return box.NewUploader(client)
}

func provideExtractor(cfg *config.Config, logger *zap.Logger) *audio.Extractor {
	opts := audio.DefaultOptions()
	opts.FFmpegPath = cfg.FFmpeg.FFmpegPath
	opts.FFprobePath = cfg.FFmpeg.FFprobePath
	opts.TempDir = cfg.Box.TempDir
	return audio.NewExtractor(audio.NewRunner(), opts, logger)
}

// provideRunRepository opens the run store selected by STORE_DRIVER.
func provideRunRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RunRepository, func(), error) {
	var (
		runs repository.RunRepository
		err  error
	)
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		runs, err = sqlite.Open(ctx, cfg.Store.DSN)
	case config.StorePostgres:
		runs, err = pg.Open(ctx, cfg.Store.DSN)
	case config.StoreRedis:
		runs, err = redis.Open(ctx, cfg.Store.DSN, cfg.Store.TTL)
	case config.StoreBadger:
		runs, err = badger.Open(cfg.Store.DSN, cfg.Store.TTL)
	case config.StoreMemory, "":
		runs = memory.New()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s run store: %w", cfg.Store.Driver, err)
	}

	cleanup := func() {
		if err := runs.Close(); err != nil {
			logger.Warn("failed to close run store", zap.Error(err))
		}
	}
	return runs, cleanup, nil
}

// provideArchive returns nil when no archive endpoint is configured.
func provideArchive(ctx context.Context, cfg *config.Config) (pipeline.Archiver, error) {
	if cfg.Archive.Endpoint == "" {
		return nil, nil
	}
	a, err := archive.NewMinioArchive(ctx, archive.Config{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		Prefix:    cfg.Archive.Prefix,
		UseSSL:    cfg.Archive.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *pipeline.Metrics {
	return pipeline.NewMetrics(reg)
}

func provideDeps(
	fetcher *box.Fetcher,
	extractor *audio.Extractor,
	transcriber *whisper.RemoteTranscriber,
	analyzer analysis.Analyzer,
	uploader *box.Uploader,
	runs repository.RunRepository,
	archiver pipeline.Archiver,
) pipeline.Deps {
	return pipeline.Deps{
		Fetcher:     fetcher,
		Extractor:   extractor,
		Transcriber: transcriber,
		Summarizer:  analyzer,
		Keywords:    analyzer,
		Uploader:    uploader,
		Runs:        runs,
		Archive:     archiver,
	}
}

func providePipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		ParallelAnalysis:  cfg.Pipeline.ParallelAnalysis,
		FetchTimeout:      cfg.Pipeline.FetchTimeout,
		TranscribeTimeout: cfg.Pipeline.TranscribeTimeout,
		AnalysisTimeout:   cfg.Pipeline.AnalysisTimeout,
		UploadTimeout:     cfg.Pipeline.UploadTimeout,
		Models:            cfg.Models(),
	}
}

func provideSkillService(p *pipeline.Pipeline, runs repository.RunRepository, cfg *config.Config) services.SkillService {
	return services.NewSkillService(p, runs, cfg.Box.SkillID)
}

func provideServer(cfg *config.Config, svc services.SkillService, reg *prometheus.Registry, logger *zap.Logger) *server.Server {
	serverCfg := server.DefaultConfig(cfg.Server.Port, cfg.Environment)
	serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	return server.NewServer(serverCfg, svc, reg, logger)
}
