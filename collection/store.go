// Package collection keeps an in-memory mirror of a remote collection
// consistent across fetches and mutations.
//
// A Store holds the list exactly as the last applied fetch returned it.
// Mutations are a single request followed, on success, by a full re-fetch;
// the mirror is never patched locally.
package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
)

// ErrReleased is returned by operations on a released store.
var ErrReleased = errors.New("collection released")

// Fetcher loads the full collection for a parent scope (e.g. an identity id).
type Fetcher[T any] func(ctx context.Context, scope string) ([]T, error)

// Mutation is one create, update or delete against the remote resource.
type Mutation struct {
	Op      string // e.g. "create identity"
	Success string // success notification text
	Do      func(ctx context.Context) error
}

type options struct {
	notifier   Notifier
	dispatcher *Dispatcher
}

// Option configures a Store.
type Option func(*options)

// WithNotifier sets the transient notification sink.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithDispatcher serialises the store's fetches and mutations on d.
func WithDispatcher(d *Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// Store is the local mirror of one remote collection.
type Store[T any] struct {
	name  string
	fetch Fetcher[T]
	opts  options

	mu        sync.Mutex
	state     State
	items     []T
	scope     string
	err       error
	epoch     uint64 // bumped on scope change and on Release
	issued    uint64 // sequence of the latest issued fetch
	released  bool
	nextSub   int
	listeners map[int]func(Snapshot[T])
}

// NewStore creates an unmounted store. name labels notifications and logs.
func NewStore[T any](name string, fetch Fetcher[T], opts ...Option) *Store[T] {
	o := options{notifier: discard{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		name:      name,
		fetch:     fetch,
		opts:      o,
		state:     Loading,
		listeners: map[int]func(Snapshot[T]){},
	}
}

// Name returns the store label.
func (s *Store[T]) Name() string { return s.name }

// Mount scopes the store to a parent and loads it. Any fetch still in flight
// for a previous scope is discarded when it completes.
func (s *Store[T]) Mount(ctx context.Context, scope string) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.epoch++
	s.scope = scope
	s.items = nil
	s.err = nil
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh re-fetches the whole collection for the current scope.
func (s *Store[T]) Refresh(ctx context.Context) error {
	return s.serialise(ctx, s.load)
}

// Mutate performs m. On success it emits one success notification and then
// re-fetches; on failure the mirror is left untouched, one error
// notification is emitted and the error is returned.
func (s *Store[T]) Mutate(ctx context.Context, m Mutation) error {
	return s.serialise(ctx, func(ctx context.Context) error {
		s.mu.Lock()
		released := s.released
		s.mu.Unlock()
		if released {
			return ErrReleased
		}

		if err := m.Do(ctx); err != nil {
			s.notifyError(m.Op, err)
			return err
		}
		if m.Success != "" {
			s.opts.notifier.Notify(Notification{Level: LevelSuccess, Op: m.Op, Message: m.Success})
		}
		// The refresh outcome is reported through the store state.
		if err := s.load(ctx); err != nil && !errors.Is(err, ErrReleased) {
			log.Debug().Err(err).Str("collection", s.name).Msg("refresh after mutation failed")
		}
		return nil
	})
}

// Release discards the store. Late responses never write to it.
func (s *Store[T]) Release() {
	s.mu.Lock()
	s.released = true
	s.epoch++
	s.listeners = map[int]func(Snapshot[T]){}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Items returns a copy of the current items.
func (s *Store[T]) Items() []T { return s.Snapshot().Items }

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the subscription.
func (s *Store[T]) Subscribe(fn func(Snapshot[T])) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ------------------------- internals -------------------------

func (s *Store[T]) serialise(ctx context.Context, fn func(context.Context) error) error {
	if s.opts.dispatcher == nil {
		return fn(ctx)
	}
	s.mu.Lock()
	key := s.name + "/" + s.scope
	s.mu.Unlock()
	return s.opts.dispatcher.Do(ctx, key, fn)
}

// load issues one fetch and applies it only if it is still the newest fetch
// of the current epoch.
func (s *Store[T]) load(ctx context.Context) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.issued++
	seq, epoch, scope := s.issued, s.epoch, s.scope
	s.state = Loading
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()
	publish(subs, snap)

	items, err := s.fetch(ctx, scope)

	s.mu.Lock()
	if s.released || epoch != s.epoch || seq != s.issued {
		s.mu.Unlock()
		log.Debug().Str("collection", s.name).Str("scope", scope).Msg("discarding stale fetch result")
		return nil
	}
	if err != nil {
		s.state = Failed
		s.items = nil
		s.err = err
	} else {
		s.state = Ready
		s.items = items
		s.err = nil
	}
	snap, subs = s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	if err != nil {
		s.notifyError("load "+s.name, err)
	}
	publish(subs, snap)
	return err
}

func (s *Store[T]) notifyError(op string, err error) {
	s.opts.notifier.Notify(Notification{
		Level:   LevelError,
		Op:      op,
		Message: client.Message(err),
		Err:     err,
	})
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{State: s.state, Items: items, Scope: s.scope, Err: s.err, Released: s.released}
}

func (s *Store[T]) subscribersLocked() []func(Snapshot[T]) {
	out := make([]func(Snapshot[T]), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func publish[T any](subs []func(Snapshot[T]), snap Snapshot[T]) {
	for _, fn := range subs {
		fn(snap)
	}
}
