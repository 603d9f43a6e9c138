package sink

import "fmt"

// Result is the one batched output a buffering stage emits per completed
// stream.
type Result struct {
	// Descriptor is the name the stage buffered its input under.
	Descriptor string `json:"descriptor"`
	// Frames is how many band frames the stage buffered before
	// end-of-stream.
	Frames int `json:"frames"`
	// Rhythm holds the squared rhythm-domain spectra, indexed
	// [window][band][bin], in window order.
	Rhythm [][][]float64 `json:"rhythm"`
}

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error // driver-specific YAML ⇒ struct
	Push(*Result) error  // consume the one batched result
	Close() error        // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
