package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"box-skill-whisper/internal/app"
	"box-skill-whisper/internal/config"
	"box-skill-whisper/internal/logging"
)

var port string

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Box Skill webhook server",
	Long: `Run the Box Skill webhook server

- POST /webhook receives Box Skill invocations
- GET /api/v1/runs/{file_id} reports the last run for a file
- GET /metrics exposes Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if port != "" {
			cfg.Server.Port = port
		}

		logger, err := logging.New(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize server", zap.Error(err))
			return err
		}
		defer cleanup()

		return srv.Run(ctx)
	},
}
