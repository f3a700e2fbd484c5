package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"box-skill-whisper/internal/app/util/files"
)

// DefaultSettle is how long a newly created file is left alone before it is read.
const DefaultSettle = 500 * time.Millisecond

type WatchOptions struct {
	Parallel int
	Settle   time.Duration
}

// Watch converts every media file created in dir until ctx is done and
// passes each result to handle, which may be called concurrently. In-flight
// files are finished before Watch returns.
func (c *Converter) Watch(ctx context.Context, dir string, opts WatchOptions, handle func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	defer wg.Wait()

	c.logger.Info("Watching for new media files", zap.String("dir", dir), zap.Int("parallel", parallel))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !files.IsMediaFile(event.Name) {
				c.logger.Debug("Ignoring non-media file", zap.String("path", event.Name))
				continue
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }()

				if res, ok := c.convertNew(ctx, path, opts.Settle); ok {
					handle(res)
				}
			}(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			c.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (c *Converter) convertNew(ctx context.Context, path string, settle time.Duration) (FileResult, bool) {
	timer := time.NewTimer(settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return FileResult{}, false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.logger.Warn("New file disappeared before processing", zap.String("path", path), zap.Error(err))
		return FileResult{}, false
	}

	file := files.FileInfo{FullPath: path, Name: info.Name(), Size: info.Size(), ModTime: info.ModTime()}
	bar := c.progressManager.CreateBar(stageCount, file.Name)
	defer bar.Finish()
	return c.convert(ctx, file, bar), true
}
