package kafka

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_YAMLAndDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`schema_version: v1
brokers: [localhost:9092]
topics: [melbands]
group_id: essentia
start_from: oldest
`)
	path := filepath.Join(dir, "kafka_source.yml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "localhost:9092" {
		t.Fatalf("brokers: %v", cfg.Brokers)
	}
	if cfg.GroupID != "essentia" || cfg.StartFrom != "oldest" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// defaults fill what the file leaves out
	if cfg.BackPressure.Capacity != 30_000 {
		t.Fatalf("capacity default: %d", cfg.BackPressure.Capacity)
	}
	if cfg.BackPressure.CheckInt != 100*time.Millisecond {
		t.Fatalf("check interval default: %v", cfg.BackPressure.CheckInt)
	}
	if cfg.EOSMarker != "EOS" {
		t.Fatalf("eos marker default: %q", cfg.EOSMarker)
	}
	if cfg.Version == "" {
		t.Fatal("version default missing")
	}
}

func TestLoadConfig_RejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kafka_source.yml")
	if err := os.WriteFile(path, []byte("schema_version: v999\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected schema_version error")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StartFrom != "newest" {
		t.Fatalf("start_from default: %q", cfg.StartFrom)
	}
}
