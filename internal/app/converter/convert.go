// Package converter runs the analysis stages of the skill on local files,
// without downloading from or uploading to Box.
package converter

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"box-skill-whisper/internal/app/cards"
	"box-skill-whisper/internal/app/model"
	"box-skill-whisper/internal/app/pipeline"
	"box-skill-whisper/internal/app/util/files"
)

// stageCount is the number of observed stages per file.
const stageCount = 4

// Analyzer is the local part of the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req model.ProcessingRequest, mediaPath string, observe pipeline.Observer) (pipeline.Analysis, error)
}

// FileResult is the outcome for one local file. Err is set only when the
// file could not be converted at all.
type FileResult struct {
	File    files.FileInfo
	Request model.ProcessingRequest
	Batch   cards.CardBatch
	Err     error
}

type Converter struct {
	analyzer        Analyzer
	progressManager *ProgressManager
	logger          *zap.Logger
}

func NewConverter(analyzer Analyzer, config ProgressConfig, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		analyzer:        analyzer,
		progressManager: NewProgressManager(config),
		logger:          logger,
	}
}

// Close waits for the progress bars to render their final state.
func (c *Converter) Close() error {
	c.progressManager.Wait()
	return nil
}

// ConvertFiles analyzes fileInfos with at most parallel files in flight.
// Results keep the input order.
func (c *Converter) ConvertFiles(ctx context.Context, fileInfos []files.FileInfo, parallel int) []FileResult {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]FileResult, len(fileInfos))
	if len(fileInfos) == 0 {
		return results
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, file := range fileInfos {
		bar := c.progressManager.CreateBar(stageCount, file.Name)
		wg.Add(1)
		go func(i int, file files.FileInfo, bar *ProgressBar) {
			defer wg.Done()
			defer bar.Finish()

			sem <- struct{}{}
			results[i] = c.convert(ctx, file, bar)
			<-sem
		}(i, file, bar)
	}
	wg.Wait()
	return results
}

func (c *Converter) convert(ctx context.Context, file files.FileInfo, bar *ProgressBar) FileResult {
	req := model.ProcessingRequest{
		FileID:    file.Name,
		FileName:  file.Name,
		SizeBytes: file.Size,
	}
	observe := func(stage string, done bool) {
		if !done {
			bar.Start(stage)
			return
		}
		bar.Increment()
	}

	res, err := c.analyzer.Analyze(ctx, req, file.FullPath, observe)
	if err != nil {
		c.logger.Error("Error converting file", zap.String("file", file.Name), zap.Error(err))
		return FileResult{File: file, Request: req, Err: err}
	}

	c.logger.Info("Successfully converted file",
		zap.String("file", file.Name),
		zap.Int("degraded_cards", len(res.Batch.Degraded())))
	return FileResult{File: file, Request: res.Request, Batch: res.Batch}
}
