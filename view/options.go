package view

import (
	"context"

	"github.com/mycelian/mycelian-identities/collection"
)

type settings struct {
	notifier    collection.Notifier
	dispatcher  *collection.Dispatcher
	onChange    func(ctx context.Context)
	concurrency int
}

// Option configures a page or panel.
type Option func(*settings)

// WithNotifier routes transient notifications to n.
func WithNotifier(n collection.Notifier) Option {
	return func(s *settings) { s.notifier = n }
}

// WithDispatcher serialises the component's fetches and mutations on d.
func WithDispatcher(d *collection.Dispatcher) Option {
	return func(s *settings) { s.dispatcher = d }
}

// WithOnChange registers a hook run after every successful mutation, e.g.
// to refresh a parent view whose summary depends on this collection.
func WithOnChange(fn func(ctx context.Context)) Option {
	return func(s *settings) { s.onChange = fn }
}

// WithConcurrency bounds the per-character identity fetches of a page load.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{concurrency: 4}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) storeOptions() []collection.Option {
	out := []collection.Option{collection.WithNotifier(s.notifier)}
	if s.dispatcher != nil {
		out = append(out, collection.WithDispatcher(s.dispatcher))
	}
	return out
}

func (s settings) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
