// Package pipeline runs one skill invocation end to end: fetch, extract
// audio, transcribe, analyze, aggregate and upload.
package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"box-skill-whisper/internal/app/analysis"
	"box-skill-whisper/internal/app/audio"
	"box-skill-whisper/internal/app/box"
	"box-skill-whisper/internal/app/cards"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
	"box-skill-whisper/internal/app/repository"
)

// Fetcher downloads the source file.
type Fetcher interface {
	Fetch(ctx context.Context, fileID, fileName string, tokens box.Tokens) (box.Download, error)
}

// AudioExtractor produces a transcribable audio file.
type AudioExtractor interface {
	Extract(ctx context.Context, mediaPath, fileName string) (audio.Result, error)
}

// Transcriber converts audio into timed text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (model.Transcript, error)
}

// Uploader writes the card batch back to the platform.
type Uploader interface {
	Upload(ctx context.Context, fileID string, tokens box.Tokens, batch cards.CardBatch, inv box.Invocation) error
}

// Archiver keeps an audit copy of a card batch.
type Archiver interface {
	Archive(ctx context.Context, fileID, requestID string, batch cards.CardBatch) (string, error)
}

// Deps are the stage implementations. Archive is optional.
type Deps struct {
	Fetcher     Fetcher
	Extractor   AudioExtractor
	Transcriber Transcriber
	Summarizer  analysis.Summarizer
	Keywords    analysis.KeywordExtractor
	Uploader    Uploader
	Runs        repository.RunRepository
	Archive     Archiver
}

// Config tunes the pipeline.
type Config struct {
	// ParallelAnalysis runs summary and keyword extraction concurrently.
	ParallelAnalysis  bool
	FetchTimeout      time.Duration
	TranscribeTimeout time.Duration
	AnalysisTimeout   time.Duration
	UploadTimeout     time.Duration
	// Models maps service names to model names for the diagnostics card.
	Models map[string]string
}

// Job is one skill invocation.
type Job struct {
	RequestID    string
	InvocationID string
	SkillID      string
	Request      model.ProcessingRequest
	Tokens       box.Tokens
}

// Result is the outcome of a successful run.
type Result struct {
	Batch  cards.CardBatch
	Record repository.RunRecord
}

// Analysis is the output of the local part of the pipeline.
type Analysis struct {
	Request model.ProcessingRequest
	Batch   cards.CardBatch
}

// Observer is notified when a stage starts and finishes. With parallel
// analysis it is called from two goroutines at once.
type Observer func(stage string, done bool)

// Pipeline runs jobs. It is safe for concurrent use.
type Pipeline struct {
	deps    Deps
	cfg     Config
	metrics *Metrics
	logger  *zap.Logger
}

// New creates a Pipeline. metrics may be nil.
func New(deps Deps, cfg Config, metrics *Metrics, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{deps: deps, cfg: cfg, metrics: metrics, logger: logger}
}

// Run processes job. A returned error is fatal (fetch, conversion or upload)
// and means nothing was written to the platform; failures of the AI stages
// only degrade cards.
func (p *Pipeline) Run(ctx context.Context, job Job) (Result, error) {
	logger := p.logger.With(
		zap.String("request_id", job.RequestID),
		zap.String("file_id", job.Request.FileID))

	rec := repository.RunRecord{
		FileID:    job.Request.FileID,
		RequestID: job.RequestID,
		FileName:  job.Request.FileName,
		Status:    repository.StatusProcessing,
		StartedAt: time.Now().UTC(),
	}
	p.record(ctx, rec, logger)
	logger.Info("processing started", zap.String("file_name", job.Request.FileName))

	start := time.Now()
	dl, err := withTimeout(ctx, p.cfg.FetchTimeout, func(ctx context.Context) (box.Download, error) {
		return p.deps.Fetcher.Fetch(ctx, job.Request.FileID, job.Request.FileName, job.Tokens)
	})
	p.finishStage(apperrors.StageFetch, err, time.Since(start), logger)
	if err != nil {
		return p.fail(ctx, rec, classify(err, apperrors.ErrFetch, apperrors.Fetch), logger)
	}
	defer removeTemp(dl.Path, logger)

	res, err := p.Analyze(ctx, job.Request.WithSize(dl.Size), dl.Path, nil)
	if err != nil {
		return p.fail(ctx, rec, err, logger)
	}

	inv := box.Invocation{SkillID: job.SkillID, ID: job.InvocationID, Models: p.cfg.Models}
	if inv.ID == "" {
		inv.ID = job.RequestID
	}
	start = time.Now()
	_, err = withTimeout(ctx, p.cfg.UploadTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.deps.Uploader.Upload(ctx, job.Request.FileID, job.Tokens, res.Batch, inv)
	})
	p.finishStage(apperrors.StageUpload, err, time.Since(start), logger)
	if err != nil {
		return p.fail(ctx, rec, classify(err, apperrors.ErrPlatformWrite, apperrors.PlatformWrite), logger)
	}

	if p.deps.Archive != nil {
		if key, err := p.deps.Archive.Archive(ctx, job.Request.FileID, job.RequestID, res.Batch); err != nil {
			logger.Warn("archive failed", zap.Error(err))
		} else {
			logger.Debug("card batch archived", zap.String("key", key))
		}
	}

	rec = completeRecord(rec, res)
	p.record(ctx, rec, logger)
	p.metrics.run(rec.Status)
	logger.Info("processing finished",
		zap.String("status", rec.Status),
		zap.Strings("degraded", rec.DegradedCards),
		zap.Float64("total_elapsed_seconds", rec.TotalElapsed))

	return Result{Batch: res.Batch, Record: rec}, nil
}

// Analyze runs the platform-independent stages on a local media file:
// audio extraction, transcription, summary, keywords and aggregation. Only a
// conversion failure is returned as an error.
func (p *Pipeline) Analyze(ctx context.Context, req model.ProcessingRequest, mediaPath string, observe Observer) (Analysis, error) {
	if observe == nil {
		observe = func(string, bool) {}
	}
	logger := p.logger.With(zap.String("file_id", req.FileID))

	observe(apperrors.StageConvert, false)
	start := time.Now()
	track, err := p.deps.Extractor.Extract(ctx, mediaPath, req.FileName)
	p.finishStage(apperrors.StageConvert, err, time.Since(start), logger)
	observe(apperrors.StageConvert, true)
	if err != nil {
		return Analysis{}, classify(err, apperrors.ErrConversion, apperrors.Conversion)
	}
	if track.Converted {
		defer removeTemp(track.Path, logger)
	}
	req = req.WithDuration(track.DurationSeconds)

	observe(apperrors.StageTranscription, false)
	transcript := outcome(ctx, p.cfg.TranscribeTimeout, apperrors.ErrTranscription, apperrors.Transcription,
		func(ctx context.Context) (model.Transcript, error) {
			return p.deps.Transcriber.Transcribe(ctx, track.Path)
		})
	p.finishOutcome(apperrors.StageTranscription, transcript.Err, transcript.Elapsed, logger)
	observe(apperrors.StageTranscription, true)

	summary, keywords := p.analyzeText(ctx, transcript, observe, logger)

	batch := cards.Aggregate(cards.Input{
		Request:    req,
		Transcript: transcript,
		Summary:    summary,
		Keywords:   keywords,
	})
	return Analysis{Request: req, Batch: batch}, nil
}

func (p *Pipeline) analyzeText(ctx context.Context, transcript model.Outcome[model.Transcript], observe Observer, logger *zap.Logger) (model.Outcome[model.SummaryResult], model.Outcome[model.KeywordResult]) {
	text := transcript.Value.FullText()
	if !transcript.Succeeded() || strings.TrimSpace(text) == "" {
		summary, keywords := model.Skip[model.SummaryResult](), model.Skip[model.KeywordResult]()
		p.finishOutcome(apperrors.StageSummary, summary.Err, 0, logger)
		p.finishOutcome(apperrors.StageKeywords, keywords.Err, 0, logger)
		return summary, keywords
	}

	var (
		summary  model.Outcome[model.SummaryResult]
		keywords model.Outcome[model.KeywordResult]
	)
	runSummary := func() {
		observe(apperrors.StageSummary, false)
		summary = outcome(ctx, p.cfg.AnalysisTimeout, apperrors.ErrSummarization, apperrors.Summarization,
			func(ctx context.Context) (model.SummaryResult, error) {
				return p.deps.Summarizer.Summarize(ctx, text)
			})
		p.finishOutcome(apperrors.StageSummary, summary.Err, summary.Elapsed, logger)
		observe(apperrors.StageSummary, true)
	}
	runKeywords := func() {
		observe(apperrors.StageKeywords, false)
		keywords = outcome(ctx, p.cfg.AnalysisTimeout, apperrors.ErrExtraction, apperrors.Extraction,
			func(ctx context.Context) (model.KeywordResult, error) {
				return p.deps.Keywords.ExtractKeywords(ctx, text)
			})
		p.finishOutcome(apperrors.StageKeywords, keywords.Err, keywords.Elapsed, logger)
		observe(apperrors.StageKeywords, true)
	}

	if !p.cfg.ParallelAnalysis {
		runSummary()
		runKeywords()
		return summary, keywords
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runSummary()
	}()
	go func() {
		defer wg.Done()
		runKeywords()
	}()
	wg.Wait()
	return summary, keywords
}

func (p *Pipeline) fail(ctx context.Context, rec repository.RunRecord, err error, logger *zap.Logger) (Result, error) {
	finished := time.Now().UTC()
	rec.Status = repository.StatusFailed
	rec.Error = err.Error()
	rec.FinishedAt = &finished
	p.record(ctx, rec, logger)
	p.metrics.run(rec.Status)
	logger.Error("processing failed", zap.String("stage", apperrors.StageOf(err)), zap.Error(err))
	return Result{Record: rec}, err
}

// record saves rec; repository failures never fail the run.
func (p *Pipeline) record(ctx context.Context, rec repository.RunRecord, logger *zap.Logger) {
	if p.deps.Runs == nil {
		return
	}
	if err := p.deps.Runs.Save(ctx, rec); err != nil {
		logger.Warn("failed to record run", zap.String("status", rec.Status), zap.Error(err))
	}
}

func (p *Pipeline) finishStage(stage string, err error, elapsed time.Duration, logger *zap.Logger) {
	if err != nil {
		p.metrics.observe(stage, resultFailure, elapsed)
		return
	}
	p.metrics.observe(stage, resultSuccess, elapsed)
	logger.Debug("stage completed", zap.String("stage", stage), zap.Duration("elapsed", elapsed))
}

func (p *Pipeline) finishOutcome(stage string, err error, elapsed time.Duration, logger *zap.Logger) {
	switch {
	case err == nil:
		p.metrics.observe(stage, resultSuccess, elapsed)
		logger.Debug("stage completed", zap.String("stage", stage), zap.Duration("elapsed", elapsed))
	case errors.Is(err, model.ErrSkipped):
		p.metrics.observe(stage, resultSkipped, 0)
		logger.Info("stage skipped", zap.String("stage", stage))
	default:
		p.metrics.observe(stage, resultFailure, elapsed)
		logger.Warn("stage failed, card degraded", zap.String("stage", stage), zap.Error(err))
	}
}

func completeRecord(rec repository.RunRecord, res Analysis) repository.RunRecord {
	finished := time.Now().UTC()
	rec.FinishedAt = &finished
	rec.CardCount = len(res.Batch.Cards)
	rec.MediaDuration = res.Request.DurationSeconds
	rec.DegradedCards = nil
	for _, t := range res.Batch.Degraded() {
		rec.DegradedCards = append(rec.DegradedCards, string(t))
	}
	if c, ok := res.Batch.Card(cards.TypeDiagnostics); ok {
		if d, ok := c.Payload.(cards.DiagnosticsPayload); ok {
			rec.TotalElapsed = d.TotalElapsedSeconds
		}
	}
	rec.Status = repository.StatusCompleted
	if len(rec.DegradedCards) > 0 {
		rec.Status = repository.StatusPartial
	}
	return rec
}

// outcome calls fn with an optional timeout and converts the result into an
// Outcome. Errors not yet classified as kind are wrapped with wrap.
func outcome[T any](ctx context.Context, timeout time.Duration, kind *apperrors.Error, wrap func(error) error, fn func(context.Context) (T, error)) model.Outcome[T] {
	start := time.Now()
	value, err := withTimeout(ctx, timeout, fn)
	elapsed := time.Since(start)
	if err != nil {
		return model.Fail[T](classify(err, kind, wrap), elapsed)
	}
	return model.Succeed(value, elapsed)
}

func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}

func classify(err error, kind *apperrors.Error, wrap func(error) error) error {
	if errors.Is(err, kind) {
		return err
	}
	return wrap(err)
}

func removeTemp(path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}
