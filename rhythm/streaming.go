package rhythm

import (
	"errors"
	"fmt"

	"github.com/debeat/essentia/dsp"
	"github.com/debeat/essentia/pool"
	"github.com/debeat/essentia/streaming"
)

// DefaultDescriptor is the descriptor name a streaming stage buffers
// incoming band frames under when none is configured.
const DefaultDescriptor = "internal.mel_bands"

// EmitFunc delivers the stage's one batched result downstream.
type EmitFunc func([][][]float64) error

// Streaming is the buffering form of the rhythm transform: upstream
// pushes a variable number of band frames into a pool-backed buffer, and
// once the completion predicate reports end-of-stream a single Process
// call computes the transform over the whole buffer and emits one result.
//
// Pushes may come from any goroutine; Process and Reset belong to a
// single scheduling goroutine.
type Streaming struct {
	algo    *Transform
	pool    *pool.Pool
	storage *streaming.PoolStorage[[]float64]
	done    streaming.Completion
	emit    EmitFunc

	drained bool // owned by the scheduling goroutine
}

// NewStreaming builds a streaming rhythm stage. descriptor may be empty,
// in which case DefaultDescriptor is used. done and emit are required:
// the surrounding pipeline signals end-of-stream through done and
// receives the batch through emit.
func NewStreaming(cfg Config, window, spectrum dsp.FrameTransform, descriptor string, done streaming.Completion, emit EmitFunc) (*Streaming, error) {
	algo, err := New(cfg, window, spectrum)
	if err != nil {
		return nil, err
	}
	if done == nil || emit == nil {
		return nil, fmt.Errorf("rhythm: completion predicate and emit function are required")
	}
	if descriptor == "" {
		descriptor = DefaultDescriptor
	}
	p := pool.New()
	return &Streaming{
		algo:    algo,
		pool:    p,
		storage: streaming.NewPoolStorage[[]float64](p, descriptor),
		done:    done,
		emit:    emit,
	}, nil
}

// Push buffers one band frame. Safe for concurrent producers.
func (s *Streaming) Push(frame []float64) error {
	return s.storage.Push(frame)
}

// Descriptor returns the buffer's descriptor name.
func (s *Streaming) Descriptor() string { return s.storage.Name() }

// Process implements streaming.Stage. It defers with Pass until the
// completion predicate is true, then reads the buffered frames once,
// computes the transform without holding any pool lock, emits the result
// and returns OK. After that it reports Finished until Reset.
func (s *Streaming) Process() (streaming.Status, error) {
	if s.drained {
		return streaming.Finished, nil
	}
	if !s.done() {
		return streaming.Pass, nil
	}

	bands, err := pool.Value[[][]float64](s.pool, s.storage.Name())
	if err != nil && !errors.Is(err, pool.ErrNotFound) {
		return streaming.Error, err
	}

	out, err := s.algo.Compute(bands)
	if err != nil {
		return streaming.Error, err
	}
	s.drained = true
	if err := s.emit(out); err != nil {
		return streaming.Error, fmt.Errorf("rhythm: emit: %w", err)
	}
	return streaming.OK, nil
}

// Reset clears the buffered frames and readies the stage for a new
// stream. Nothing from a previous cycle survives.
func (s *Streaming) Reset() {
	s.pool.Clear()
	s.drained = false
}
