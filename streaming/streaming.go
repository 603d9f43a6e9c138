// Package streaming defines the pull-based execution contract for
// buffering pipeline stages and the adapter that feeds a push-driven
// producer into a pool.
package streaming

// Status is what a stage reports back to its scheduler after one
// Process call.
type Status int

const (
	// OK means the stage did useful work; for a buffering stage this is
	// the call that computed and emitted the batch.
	OK Status = iota
	// Pass means the stage deferred: upstream has not signaled completion
	// yet, so there is nothing to compute. The scheduler should retry
	// after more upstream progress.
	Pass
	// Finished means the stage has no further work until it is Reset.
	Finished
	// Error accompanies a non-nil error from Process.
	Error
)

var statusNames = map[Status]string{
	OK:       "OK",
	Pass:     "PASS",
	Finished: "FINISHED",
	Error:    "ERROR",
}

func (s Status) String() string { return statusNames[s] }

// Completion reports whether upstream has finished producing. It is
// supplied by the surrounding pipeline: zero further pushes is
// indistinguishable from a stall, so completion is always an explicit
// signal, never inferred from the buffer.
type Completion func() bool

// Stage is the contract a buffering pipeline stage implements. Process is
// invoked repeatedly by a single scheduling goroutine; it returns Pass
// until the stage's completion predicate reports end-of-stream, then runs
// exactly one batch computation over everything buffered, emits exactly
// one result downstream and returns OK. Reset clears the buffered state
// and readies the stage for a new stream; it is the only way to reuse a
// stage instance.
type Stage interface {
	Process() (Status, error)
	Reset()
}
