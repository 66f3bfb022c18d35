package collection

import "fmt"

// State is the lifecycle of a collection's local mirror.
type State int

const (
	// Loading: a fetch is outstanding.
	Loading State = iota
	// Ready: items reflect the last applied fetch.
	Ready
	// Failed: the last fetch failed; items are empty.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is an immutable copy of a store's state.
type Snapshot[T any] struct {
	State    State
	Items    []T
	Scope    string
	Err      error
	Released bool
}

// Empty reports whether a ready collection holds no items.
func (s Snapshot[T]) Empty() bool { return s.State == Ready && len(s.Items) == 0 }
