package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/debeat/essentia/sink"
	"github.com/debeat/essentia/source/kafka"
)

type fakeSource struct {
	frames [][]float64
}

func (f *fakeSource) Configure(kafka.Config) error { return nil }
func (f *fakeSource) Close() error                 { return nil }
func (f *fakeSource) Run(ctx context.Context, emit kafka.EmitFunc) error {
	for _, fr := range f.frames {
		if err := emit(fr); err != nil {
			return err
		}
	}
	return nil
}

// orderSink records the ordering of pushes and closes.
type orderSink struct {
	events *[]string
}

func (s *orderSink) Configure(any) error { return nil }
func (s *orderSink) Push(*sink.Result) error {
	*s.events = append(*s.events, "push")
	return nil
}
func (s *orderSink) Close() error {
	*s.events = append(*s.events, "close")
	return nil
}

func TestEngine_ClosesSinksAfterDriveLoopEnds(t *testing.T) {
	var events []string
	kafka.Register("fake", func() kafka.Adapter {
		return &fakeSource{frames: [][]float64{{1, 1}, {2, 2}}}
	})
	sink.Register("stdout", func() sink.Adapter { return &orderSink{events: &events} })

	dir := t.TempDir()
	pipe := []byte(`schema_version: v1
source: { kind: kafka, driver: fake }
stage: { frame_size: 2, hop_size: 2 }
sinks: [stdout]
`)
	path := filepath.Join(dir, "pipeline.yml")
	if err := os.WriteFile(path, pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}

	ctx := context.Background()
	e, err := Bootstrap(ctx, Config{MetricsPort: 0, PipelineYml: path})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events) != 2 || events[0] != "push" || events[1] != "close" {
		t.Fatalf("want the sink pushed then closed after the drive loop, got %v", events)
	}
}
