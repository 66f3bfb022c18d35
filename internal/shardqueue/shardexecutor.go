// Package shardqueue runs jobs on a fixed set of lanes. Jobs submitted under
// the same key always land on the same lane and run one after another in
// submission order; different lanes run in parallel.
//
// Callers must not Submit concurrently for the same key if they rely on
// ordering between those submissions.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type task struct {
	ctx context.Context
	job Job
}

// lane is one worker goroutine and its buffered inbox.
type lane struct {
	idx   int
	label string
	inbox chan task
}

// ShardExecutor runs each Job exactly once on the lane chosen by its key.
// Failures and panics are reported to Config.ErrorHandler, never retried.
type ShardExecutor struct {
	cfg   Config
	lanes []*lane

	// mu guards closed and the inbox channels: senders hold it for reading
	// so Stop can close the inboxes without racing a send.
	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// NewShardExecutor starts cfg.Shards lanes.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	e := &ShardExecutor{cfg: cfg, lanes: make([]*lane, cfg.Shards)}
	for i := range e.lanes {
		l := &lane{idx: i, label: labelFor(i), inbox: make(chan task, cfg.QueueSize)}
		e.lanes[i] = l
		e.wg.Add(1)
		go e.work(l)
	}
	return e
}

// Submit queues job on key's lane. It waits at most EnqueueTimeout for room
// and then returns a *QueueFullError. ErrExecutorClosed is returned once Stop
// has begun; ctx.Err() if ctx ends while waiting.
func (e *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrExecutorClosed
	}

	l := e.lanes[e.shardFor(key)]
	select {
	case l.inbox <- task{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(l.label).Inc()
		return nil
	default:
	}

	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()
	select {
	case l.inbox <- task{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(l.label).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(l.label).Inc()
		return &QueueFullError{Shard: l.idx, Length: len(l.inbox), Capacity: cap(l.inbox)}
	}
}

// Barrier returns once every job submitted under key before the call has run.
func (e *ShardExecutor) Barrier(ctx context.Context, key string) error {
	reached := make(chan struct{})
	if err := e.Submit(ctx, key, JobFunc(func(context.Context) error {
		close(reached)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new work, lets every lane finish what is already queued and
// waits for the lanes to exit. Calling it again is a no-op.
func (e *ShardExecutor) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	for _, l := range e.lanes {
		close(l.inbox)
	}
	e.mu.Unlock()

	e.wg.Wait()
	log.Debug().Int("shards", len(e.lanes)).Msg("shardqueue: executor stopped")
}

// Close implements io.Closer.
func (e *ShardExecutor) Close() error {
	e.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (e *ShardExecutor) work(l *lane) {
	defer e.wg.Done()
	defer queueDepth.WithLabelValues(l.label).Set(0)
	for t := range l.inbox {
		e.run(l, t)
		queueDepth.WithLabelValues(l.label).Set(float64(len(l.inbox)))
	}
}

// run executes one task, skipping it when its context is already done.
func (e *ShardExecutor) run(l *lane, t task) {
	if t.job == nil {
		return
	}
	if err := t.ctx.Err(); err != nil {
		e.report(err)
		return
	}
	start := time.Now()
	err := invoke(t)
	runDuration.WithLabelValues(l.label).Observe(time.Since(start).Seconds())
	e.report(err)
}

func invoke(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = &PanicError{Value: r}
		}
	}()
	return t.job.Run(t.ctx)
}

func (e *ShardExecutor) report(err error) {
	if err == nil || e.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: error handler panic")
		}
	}()
	e.cfg.ErrorHandler(err)
}

func (e *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(e.lanes)))
}
