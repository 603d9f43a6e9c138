package engine

import (
	"context"

	"github.com/debeat/essentia/internal/pipeline"
)

type Engine struct {
	runner *pipeline.Runner
}

// Run drives the pipeline until the stream completes or ctx is
// cancelled, then closes the runner. Closing only after the drive loop
// returns keeps Close off the path of an in-flight sink push.
func (e *Engine) Run(ctx context.Context) error {
	err := e.runner.Run(ctx)
	if cerr := e.runner.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
