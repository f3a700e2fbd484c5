package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"box-skill-whisper/internal/app"
	"box-skill-whisper/internal/app/box"
	"box-skill-whisper/internal/app/cards"
	"box-skill-whisper/internal/app/converter"
	"box-skill-whisper/internal/app/converter/export"
	"box-skill-whisper/internal/app/util/files"
	"box-skill-whisper/internal/config"
	"box-skill-whisper/internal/logging"
)

var (
	parallel     int
	showProgress bool
	xlsxPath     string
	watch        bool
)

func init() {
	Cmd.Flags().IntVarP(&parallel, "parallel", "j", 1, "number of files processed concurrently")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force progress bars even when stderr is not a terminal")
	Cmd.Flags().StringVarP(&xlsxPath, "xlsx", "o", "", "also export the cards to this Excel file")
	Cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and process media files as they are created in the given directory")
	// a watch run never ends with a result set to export
	Cmd.MarkFlagsMutuallyExclusive("watch", "xlsx")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process <file|dir>...",
	Short: "Generate cards for local audio and video files",
	Long: `Generate cards for local audio and video files

- Directories are scanned for media files, sorted by modification time
- Each file is converted to audio, transcribed, summarized and tagged
- Nothing is downloaded from or uploaded to Box
- With --watch, new files created in the directory are processed until interrupted`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err := logging.New(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if watch && len(args) != 1 {
			return errors.New("--watch takes exactly one directory")
		}

		var fileInfos []files.FileInfo
		if !watch {
			fileInfos, err = files.CollectMediaFiles(args)
			if err != nil {
				return err
			}
			if len(fileInfos) == 0 {
				return fmt.Errorf("no media files found in %v", args)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, cleanup, err := app.InitializePipeline(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize pipeline", zap.Error(err))
			return err
		}
		defer cleanup()

		models := cfg.Models()

		if watch {
			conv := converter.NewConverter(p, converter.ProgressConfig{}, logger)
			var mu sync.Mutex
			err := conv.Watch(ctx, args[0], converter.WatchOptions{Parallel: parallel, Settle: converter.DefaultSettle}, func(r converter.FileResult) {
				mu.Lock()
				defer mu.Unlock()
				printResult(r, models)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		conv := converter.NewConverter(p, converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(showProgress),
			Writer:  os.Stderr,
		}, logger)
		results := conv.ConvertFiles(ctx, fileInfos, parallel)
		conv.Close()

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
			printResult(r, models)
		}

		if xlsxPath != "" {
			if err := export.ToExcel(results, xlsxPath); err != nil {
				return fmt.Errorf("failed to export cards: %w", err)
			}
			fmt.Printf("export finished, exported file path: %v\n", xlsxPath)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

func printResult(r converter.FileResult, models map[string]string) {
	fmt.Printf("== %s\n", r.File.FullPath)
	if r.Err != nil {
		fmt.Printf("failed: %v\n\n", r.Err)
		return
	}
	if c, ok := r.Batch.Card(cards.TypeDiagnostics); ok {
		if d, ok := c.Payload.(cards.DiagnosticsPayload); ok {
			fmt.Println(box.DiagnosticsMessage(d, models))
		}
	}
	fmt.Println()
}
