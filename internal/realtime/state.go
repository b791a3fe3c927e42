package realtime

import "sync"

// State is the view model the presentation layer renders: whether the first
// snapshot has arrived, and the current items.
type State[T any] struct {
	Loading bool
	Items   []T
}

// Empty reports whether a loaded state has no items. A loading state is not
// empty yet, it is unknown.
func (s State[T]) Empty() bool {
	return !s.Loading && len(s.Items) == 0
}

// Reducer folds subscription emissions into a State. It starts loading with
// no items; the first emission clears Loading permanently and every later
// emission only replaces Items. Safe for concurrent Apply/Current, since
// teardown and rendering are driven by lifecycle events outside this core.
type Reducer[T any] struct {
	mu    sync.Mutex
	state State[T]
}

// NewReducer returns a reducer in the initial loading state.
func NewReducer[T any]() *Reducer[T] {
	return &Reducer[T]{state: State[T]{Loading: true}}
}

// Apply consumes one emission and returns the new state.
func (r *Reducer[T]) Apply(items []T) State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State[T]{Loading: false, Items: items}
	return r.state
}

// Current returns the last computed state.
func (r *Reducer[T]) Current() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
