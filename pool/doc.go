// Package pool implements the descriptor pool: a thread-safe storage
// structure that holds frames of all kinds of descriptors flowing between
// pipeline stages.
//
// A pool maps descriptor names to data. A descriptor name is a period ('.')
// delimited string of identifiers, e.g. "lowlevel.bpm". The pool stores
// reals, strings, vectors of reals, vectors of strings, two-dimensional
// real arrays and stereo samples. Repeatedly adding data under one name
// accumulates it into a vector for that name; Set associates a name with
// exactly one value instead.
//
// Mixing kinds under one descriptor name is not allowed, and a name that
// maps to a single value is a different kind than a name that maps to a
// vector of the same element type. A name also may not be both a value
// holder and a namespace prefix of other names.
//
// Each of the nine sub-pools is guarded by its own mutex. Operations that
// span sub-pools acquire every lock through lockAll, which takes them in
// one canonical order and releases them in reverse; no other code path
// may hold more than one sub-pool lock at a time.
package pool
