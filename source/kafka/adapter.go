package kafka

import "context"

// EmitFunc receives one band-energy frame from a source.
type EmitFunc func(frame []float64) error

// Adapter is the behaviour every Kafka source driver exposes. Run pushes
// frames via emit until the stream ends; a nil return means upstream
// signaled end-of-stream and no further frames will arrive.
type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
