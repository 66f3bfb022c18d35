package collection

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level distinguishes success toasts from error toasts.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification is one transient, user-visible message.
type Notification struct {
	Level   Level
	Op      string
	Message string
	Err     error
}

// Notifier receives transient notifications. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Logger *zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	lg := l.Logger
	if lg == nil {
		lg = &log.Logger
	}
	ev := lg.Info()
	if n.Level == LevelError {
		ev = lg.Warn().Err(n.Err)
	}
	ev.Str("op", n.Op).Msg(n.Message)
}

// Recorder keeps every notification; used by tests and by presentations
// that drain notifications after each command.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Count returns how many notifications of level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.all {
		if it.Level == level {
			n++
		}
	}
	return n
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all
	r.all = nil
	return out
}

type discard struct{}

func (discard) Notify(Notification) {}
