//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"box-skill-whisper/internal/api/server"
	"box-skill-whisper/internal/app/pipeline"
	"box-skill-whisper/internal/config"
)

// InitializeServer builds the webhook server and everything behind it.
func InitializeServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(ServerSet)
	return nil, nil, nil
}

// InitializePipeline builds the pipeline alone, for local processing.
func InitializePipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, func(), error) {
	wire.Build(PipelineSet)
	return nil, nil, nil
}
