package stdout

import (
	"fmt"
	"time"

	"github.com/debeat/essentia/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	DelayMS    int  `yaml:"delay_ms"`    // artificial delay before printing
	PrintValue bool `yaml:"print_value"` // dump the rhythm frames themselves
	MaxWindows int  `yaml:"max_windows"` // 0 = print every window
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r *sink.Result) error {
	if d.cfg.DelayMS > 0 {
		time.Sleep(time.Duration(d.cfg.DelayMS) * time.Millisecond)
	}

	bands, bins := 0, 0
	if len(r.Rhythm) > 0 {
		bands = len(r.Rhythm[0])
		if bands > 0 {
			bins = len(r.Rhythm[0][0])
		}
	}
	fmt.Printf("[sink] %s: %d frames -> %d windows x %d bands x %d bins\n",
		r.Descriptor, r.Frames, len(r.Rhythm), bands, bins)

	if !d.cfg.PrintValue {
		return nil
	}
	limit := len(r.Rhythm)
	if d.cfg.MaxWindows > 0 && d.cfg.MaxWindows < limit {
		limit = d.cfg.MaxWindows
	}
	for w := 0; w < limit; w++ {
		fmt.Printf("[sink]   window %d: %v\n", w, r.Rhythm[w])
	}
	return nil
}

func (d *driver) Close() error { return nil }

func init() { sink.Register("stdout", func() sink.Adapter { return &driver{} }) }
