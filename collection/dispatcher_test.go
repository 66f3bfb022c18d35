package collection

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mycelian/mycelian-identities/internal/shardqueue"
)

func dispatcherConfig() shardqueue.Config {
	return shardqueue.Config{Shards: 2, QueueSize: 16, EnqueueTimeout: 50 * time.Millisecond}
}

func TestDispatcher_DoReturnsResult(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(dispatcherConfig())
	defer func() { _ = d.Close() }()

	boom := errors.New("boom")
	if err := d.Do(context.Background(), "k", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := d.Do(context.Background(), "k", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDispatcher_NoRetry(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(dispatcherConfig())
	defer func() { _ = d.Close() }()

	var runs int32
	_ = d.Do(context.Background(), "k", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("transient")
	})
	if err := d.Flush(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("job ran %d times, want 1", got)
	}
}

func TestDispatcher_BackPressure(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(shardqueue.Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer func() { _ = d.Close() }()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), "k", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	go func() { _ = d.Do(context.Background(), "k", func(context.Context) error { return nil }) }()

	var err error
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		err = d.Do(ctx, "k", func(context.Context) error { return nil })
		cancel()
		if IsBackPressure(err) {
			break
		}
	}
	close(release)
	if !IsBackPressure(err) {
		t.Fatalf("expected back-pressure, got %v", err)
	}
}

func TestDispatcher_CtxCancelledWhileWaiting(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(dispatcherConfig())
	defer func() { _ = d.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	block := make(chan struct{})
	defer close(block)
	err := d.Do(ctx, "k", func(context.Context) error { <-block; return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
