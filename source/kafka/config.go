package kafka

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type BackPressureCfg struct {
	Capacity int64         `koanf:"capacity"`       // max frames consumed per refill window
	CheckInt time.Duration `koanf:"check_interval"` // refill tick
}

type Config struct {
	Brokers   []string `koanf:"brokers"`
	Topics    []string `koanf:"topics"`
	GroupID   string   `koanf:"group_id"`
	StartFrom string   `koanf:"start_from"` // oldest|newest (default newest)
	Version   string   `koanf:"version"`
	TLSEn     bool     `koanf:"tls_enabled"`
	SASLUser  string   `koanf:"sasl_user"`
	SASLPass  string   `koanf:"sasl_pass"`

	// EOSMarker is the literal payload a producer sends to signal
	// end-of-stream. Completion is always explicit: an idle topic is
	// indistinguishable from a stalled one.
	EOSMarker string `koanf:"eos_marker"`

	BackPressure BackPressureCfg `koanf:"backpressure"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `ESSENTIA_KAFKA__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("kafka schema_version %q not supported (want v1)", sv)
	}

	_ = k.Load(env.Provider("ESSENTIA_KAFKA__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.BackPressure.Capacity == 0 {
		c.BackPressure.Capacity = 30_000
	}
	if c.BackPressure.CheckInt == 0 {
		c.BackPressure.CheckInt = 100 * time.Millisecond
	}
	if c.StartFrom == "" {
		c.StartFrom = "newest"
	}
	if c.Version == "" {
		c.Version = "3.6.0"
	}
	if c.EOSMarker == "" {
		c.EOSMarker = "EOS"
	}
}
