package converter

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager owns the mpb container shared by all file bars. A disabled
// manager hands out bars that only track their stage.
type ProgressManager struct {
	progress *mpb.Progress
	mu       sync.Mutex
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{}
	}

	out := config.Writer
	if out == nil {
		out = os.Stderr
	}
	return &ProgressManager{
		progress: mpb.New(mpb.WithOutput(out), mpb.WithRefreshRate(120*time.Millisecond)),
	}
}

// ProgressBar follows one file through the pipeline stages.
type ProgressBar struct {
	bar   *mpb.Bar
	stage atomic.Value
}

// CreateBar adds a bar for a file going through total stages.
func (pm *ProgressManager) CreateBar(total int, name string) *ProgressBar {
	pb := &ProgressBar{}
	pb.stage.Store("queued")
	if pm.progress == nil {
		return pb
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	pb.bar = pm.progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string { return pb.Stage() }, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d/%d", decor.WCSyncWidth),
			decor.OnAbort(
				decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace), " ✓"),
				" ✗",
			),
		),
	)
	return pb
}

// Start records the stage now running.
func (pb *ProgressBar) Start(stage string) {
	pb.stage.Store(stage)
}

func (pb *ProgressBar) Stage() string {
	return pb.stage.Load().(string)
}

func (pb *ProgressBar) Increment() {
	if pb.bar != nil {
		pb.bar.Increment()
	}
}

// Finish ends the bar. A bar that did not reach its total is shown as aborted.
func (pb *ProgressBar) Finish() {
	if pb.bar == nil {
		pb.stage.Store("done")
		return
	}
	if pb.bar.Completed() {
		pb.stage.Store("done")
		return
	}
	pb.stage.Store("failed")
	pb.bar.Abort(false)
}

// Wait blocks until every bar is finished and rendered.
func (pm *ProgressManager) Wait() {
	if pm.progress != nil {
		pm.progress.Wait()
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ShouldShowProgress enables bars when forced or when stderr is a terminal.
func ShouldShowProgress(forced bool) bool {
	return forced || IsTTY(os.Stderr)
}
