package rhythm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/debeat/essentia/streaming"
)

type capture struct {
	emitted [][][][]float64
	err     error
}

func (c *capture) emit(out [][][]float64) error {
	if c.err != nil {
		return c.err
	}
	c.emitted = append(c.emitted, out)
	return nil
}

func newTestStage(t *testing.T, done *bool, cs *capture) *Streaming {
	t.Helper()
	s, err := NewStreaming(
		Config{FrameSize: 2, HopSize: 2},
		identity{}, identity{},
		"",
		func() bool { return *done },
		cs.emit,
	)
	if err != nil {
		t.Fatalf("new streaming: %v", err)
	}
	return s
}

func TestStreaming_PassesUntilCompletion(t *testing.T) {
	done := false
	cs := &capture{}
	s := newTestStage(t, &done, cs)

	if err := s.Push([]float64{1}); err != nil {
		t.Fatalf("push: %v", err)
	}
	for i := 0; i < 3; i++ {
		st, err := s.Process()
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if st != streaming.Pass {
			t.Fatalf("want PASS before completion, got %s", st)
		}
	}
	if len(cs.emitted) != 0 {
		t.Fatalf("stage emitted before completion: %v", cs.emitted)
	}
}

func TestStreaming_BatchCoversAllPushesInOrder(t *testing.T) {
	done := false
	cs := &capture{}
	s := newTestStage(t, &done, cs)

	frames := [][]float64{{1}, {3}, {6}}
	for _, f := range frames {
		if err := s.Push(f); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	done = true

	st, err := s.Process()
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if st != streaming.OK {
		t.Fatalf("want OK, got %s", st)
	}
	if len(cs.emitted) != 1 {
		t.Fatalf("want exactly one emission, got %d", len(cs.emitted))
	}
	// same numbers as the zero-pad batch test: derivative [0 2 3],
	// windows [0 2] and [3 0], identity collaborators, squared
	want := [][][]float64{{{0, 4}}, {{9, 0}}}
	if !reflect.DeepEqual(cs.emitted[0], want) {
		t.Fatalf("want %v, got %v", want, cs.emitted[0])
	}

	st, err = s.Process()
	if err != nil {
		t.Fatalf("process after drain: %v", err)
	}
	if st != streaming.Finished {
		t.Fatalf("want FINISHED after drain, got %s", st)
	}
	if len(cs.emitted) != 1 {
		t.Fatalf("drained stage emitted again: %d", len(cs.emitted))
	}
}

func TestStreaming_EmptyStreamEmitsEmptyBatch(t *testing.T) {
	done := true
	cs := &capture{}
	s := newTestStage(t, &done, cs)

	st, err := s.Process()
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if st != streaming.OK {
		t.Fatalf("want OK, got %s", st)
	}
	if len(cs.emitted) != 1 || len(cs.emitted[0]) != 0 {
		t.Fatalf("want one empty emission, got %v", cs.emitted)
	}
}

func TestStreaming_ResetIsolatesCycles(t *testing.T) {
	done := false
	cs := &capture{}
	s := newTestStage(t, &done, cs)

	if err := s.Push([]float64{1}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.Push([]float64{2}); err != nil {
		t.Fatalf("push: %v", err)
	}
	done = true
	if _, err := s.Process(); err != nil {
		t.Fatalf("first cycle: %v", err)
	}

	done = false
	s.Reset()

	frames := [][]float64{{1}, {3}, {6}}
	for _, f := range frames {
		if err := s.Push(f); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	done = true
	st, err := s.Process()
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if st != streaming.OK {
		t.Fatalf("want OK, got %s", st)
	}
	want := [][][]float64{{{0, 4}}, {{9, 0}}}
	if !reflect.DeepEqual(cs.emitted[1], want) {
		t.Fatalf("second cycle leaked prior data: want %v, got %v", want, cs.emitted[1])
	}
}

func TestStreaming_EmitFailureSurfaces(t *testing.T) {
	done := true
	boom := errors.New("sink unavailable")
	cs := &capture{err: boom}
	s := newTestStage(t, &done, cs)

	if err := s.Push([]float64{1}); err != nil {
		t.Fatalf("push: %v", err)
	}
	st, err := s.Process()
	if !errors.Is(err, boom) {
		t.Fatalf("want emit error, got %v", err)
	}
	if st != streaming.Error {
		t.Fatalf("want ERROR status, got %s", st)
	}
}

func TestStreaming_DefaultDescriptor(t *testing.T) {
	done := false
	cs := &capture{}
	s := newTestStage(t, &done, cs)
	if s.Descriptor() != DefaultDescriptor {
		t.Fatalf("want %q, got %q", DefaultDescriptor, s.Descriptor())
	}
}
