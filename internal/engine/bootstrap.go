package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/debeat/essentia/internal/pipeline"
	"github.com/debeat/essentia/internal/telemetry"
)

type Config struct {
	MetricsPort int
	PipelineYml string
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.PipelineYml == "" {
		return nil, errors.New("engine: pipeline file is required")
	}

	// 1. pipeline runner
	runner, err := pipeline.Compile(cfg.PipelineYml)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := runner.Start(ctx); err != nil {
		return nil, err
	}

	// 2. metrics
	telemetry.Expose(cfg.MetricsPort)

	return &Engine{runner: runner}, nil
}
