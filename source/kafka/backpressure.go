package kafka

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Controller is a token bucket gating how fast a driver hands frames to
// the stage buffer. Consuming one frame costs one token; tokens refill on
// a fixed tick, so a slow stage cannot be flooded by a fast topic.
type Controller struct {
	capacity int64
	refill   int64

	mu     sync.Mutex
	tokens int64
	cond   *sync.Cond
	closed bool
}

// NewController returns a controller holding cap tokens, refilling refill
// tokens every tick.
func NewController(cap, refill int64, tick time.Duration) *Controller {
	c := &Controller{
		capacity: cap,
		refill:   refill,
		tokens:   cap,
	}
	c.cond = sync.NewCond(&c.mu)

	go func() {
		t := time.NewTicker(tick)
		defer t.Stop()
		for range t.C {
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			c.tokens += c.refill
			if c.tokens > c.capacity {
				c.tokens = c.capacity
			}
			c.mu.Unlock()
			c.cond.Broadcast()
		}
	}()
	return c
}

// Acquire blocks until one token is available or ctx is done.
func (c *Controller) Acquire(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.cond.Broadcast)
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.tokens == 0 && !c.closed && ctx.Err() == nil {
		c.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed && c.tokens == 0 {
		return errors.New("kafka: backpressure controller closed")
	}
	c.tokens--
	return nil
}

// TryAcquire takes n tokens without blocking; it reports whether it did.
func (c *Controller) TryAcquire(n int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens < n {
		return false
	}
	c.tokens -= n
	return true
}

// Release returns n tokens to the bucket.
func (c *Controller) Release(n int64) {
	c.mu.Lock()
	c.tokens += n
	if c.tokens > c.capacity {
		c.tokens = c.capacity
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Close stops the refill loop and wakes any blocked Acquire.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
}
