package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/internal/shardqueue"
)

// ErrBackPressure is returned when a collection's queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Dispatcher runs work for a collection key one item at a time, in
// submission order. Different keys proceed in parallel. It never retries.
type Dispatcher struct {
	exec *shardqueue.ShardExecutor
}

// NewDispatcher starts a dispatcher over a shard executor.
func NewDispatcher(cfg shardqueue.Config) *Dispatcher {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(err error) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Debug().Err(err).Msg("collection job failed")
		}
	}
	return &Dispatcher{exec: shardqueue.NewShardExecutor(cfg)}
}

// Do runs fn on key's queue and waits for its result. If ctx ends first,
// Do returns ctx.Err(); fn still runs unless it had not started yet.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	result := make(chan error, 1)
	err := d.exec.Submit(ctx, key, shardqueue.JobFunc(func(jobCtx context.Context) error {
		err := fn(jobCtx)
		result <- err
		return err
	}))
	if err != nil {
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return fmt.Errorf("%w: %v", ErrBackPressure, err)
		}
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

// Flush waits until everything already submitted for key has run.
func (d *Dispatcher) Flush(ctx context.Context, key string) error {
	return d.exec.Barrier(ctx, key)
}

// Close drains queued work and stops the workers. Safe to call twice.
func (d *Dispatcher) Close() error {
	return d.exec.Close()
}
