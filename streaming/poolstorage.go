package streaming

import "github.com/debeat/essentia/pool"

// PoolStorage bridges a push-driven producer into a pool: every pushed
// item is accumulated under one fixed descriptor name. The producer needs
// no buffering logic of its own, and multiple producers may push into one
// storage concurrently.
type PoolStorage[T pool.Addable] struct {
	pool *pool.Pool
	name string
}

// NewPoolStorage returns a storage accumulating under name in p.
func NewPoolStorage[T pool.Addable](p *pool.Pool, name string) *PoolStorage[T] {
	return &PoolStorage[T]{pool: p, name: name}
}

// Push appends v to the accumulated sequence for the storage's name.
func (s *PoolStorage[T]) Push(v T) error {
	return pool.Add(s.pool, s.name, v, false)
}

// Name returns the descriptor name the storage accumulates under.
func (s *PoolStorage[T]) Name() string { return s.name }
