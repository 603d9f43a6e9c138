package kafka

import (
	"context"
	"testing"
	"time"
)

func TestController_TryAcquireAndRelease(t *testing.T) {
	c := NewController(2, 1, time.Hour) // tick far away, no refill during test
	defer c.Close()

	if !c.TryAcquire(2) {
		t.Fatal("full bucket refused tokens")
	}
	if c.TryAcquire(1) {
		t.Fatal("empty bucket handed out a token")
	}
	c.Release(1)
	if !c.TryAcquire(1) {
		t.Fatal("released token not acquirable")
	}
}

func TestController_AcquireImmediate(t *testing.T) {
	c := NewController(1, 1, time.Hour)
	defer c.Close()
	if err := c.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
}

func TestController_AcquireHonorsContext(t *testing.T) {
	c := NewController(1, 1, time.Hour)
	defer c.Close()
	if !c.TryAcquire(1) {
		t.Fatal("drain failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Acquire(ctx); err == nil {
		t.Fatal("acquire on empty bucket ignored context deadline")
	}
}

func TestController_AcquireUnblocksOnRelease(t *testing.T) {
	c := NewController(1, 1, time.Hour)
	defer c.Close()
	if !c.TryAcquire(1) {
		t.Fatal("drain failed")
	}

	done := make(chan error, 1)
	go func() { done <- c.Acquire(context.Background()) }()
	time.Sleep(10 * time.Millisecond)
	c.Release(1)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire did not unblock on release")
	}
}
