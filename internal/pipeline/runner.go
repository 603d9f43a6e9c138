package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/debeat/essentia/internal/logging"
	"github.com/debeat/essentia/internal/telemetry"
	"github.com/debeat/essentia/rhythm"
	"github.com/debeat/essentia/sink"
	"github.com/debeat/essentia/source/kafka"
	"github.com/debeat/essentia/streaming"
)

// Runner wires one source adapter through the buffering rhythm stage into
// the configured sinks. It owns stream lifecycle: the source goroutine,
// end-of-stream detection, and the single batched flush.
type Runner struct {
	source kafka.Adapter
	stage  *rhythm.Streaming
	sinks  []sink.Adapter

	drained    atomic.Bool
	sourceDone chan struct{}
	sourceErr  error
	frames     atomic.Int64
}

func NewRunner() *Runner { return &Runner{sourceDone: make(chan struct{})} }

func (r *Runner) AddSink(s sink.Adapter)    { r.sinks = append(r.sinks, s) }
func (r *Runner) SetSource(s kafka.Adapter) { r.source = s }
func (r *Runner) SetStage(s *rhythm.Streaming) {
	r.stage = s
}

// sourceDrained is the completion predicate handed to the stage.
func (r *Runner) sourceDrained() bool { return r.drained.Load() }

/*──────── frame routing ───────*/
func (r *Runner) pushFrame(f []float64) error {
	if err := r.stage.Push(f); err != nil {
		return err
	}
	r.frames.Add(1)
	telemetry.FramesConsumed.Inc()
	telemetry.BufferedFrames.Set(float64(r.frames.Load()))
	return nil
}

// emit fans the one batched result out to every sink.
func (r *Runner) emit(batch [][][]float64) error {
	res := &sink.Result{
		Descriptor: r.stage.Descriptor(),
		Frames:     int(r.frames.Load()),
		Rhythm:     batch,
	}
	for _, s := range r.sinks {
		if err := s.Push(res); err != nil {
			return err
		}
	}
	telemetry.BatchesEmitted.Inc()
	return nil
}

// Start launches the source in the background. The stage is driven
// separately by Run.
func (r *Runner) Start(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if r.stage == nil {
		return errors.New("runner: no stage configured")
	}
	go func() {
		r.sourceErr = r.source.Run(ctx, r.pushFrame)
		// Only a clean return is end-of-stream. A source failure must not
		// flip the completion predicate, or the stage would publish a
		// truncated stream as a completed batch.
		if r.sourceErr == nil {
			r.drained.Store(true)
		}
		close(r.sourceDone)
	}()
	return nil
}

// Run drives the stage until it flushes or the context is cancelled.
// It assumes Start has been called.
func (r *Runner) Run(ctx context.Context) error {
	for {
		st, err := r.stage.Process()
		if err != nil {
			return err
		}
		switch st {
		case streaming.Pass:
			// Nothing to do until the source drains.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.sourceDone:
				if r.sourceErr != nil {
					return r.sourceErr
				}
			}
		case streaming.OK, streaming.Finished:
			logging.L().Info("pipeline: stream complete",
				"descriptor", r.stage.Descriptor(),
				"frames", r.frames.Load())
			return nil
		}
	}
}

// Reset rearms the runner for another stream cycle.
func (r *Runner) Reset() {
	r.stage.Reset()
	r.frames.Store(0)
	r.drained.Store(false)
	r.sourceErr = nil
	r.sourceDone = make(chan struct{})
	telemetry.BufferedFrames.Set(0)
}

func (r *Runner) Close() error {
	var first error
	if r.source != nil {
		if err := r.source.Close(); err != nil {
			first = err
		}
	}
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
