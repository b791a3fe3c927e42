// Package realtime converts the document store's push-based snapshot
// listeners into current-value streams the presentation layer can range
// over, and holds the view state derived from them.
package realtime

import (
	"sync"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Subscription is a live, continuously updated view of one query. Every
// remote change delivers the full mapped result set as the stream's new
// current value; consumers never observe diffs or partial state. Snapshots
// are queued in arrival order, so N notifications are observed as exactly
// N updates, and a slow consumer never blocks the store's listener.
//
// A Subscription owns exactly one underlying store registration. Close
// releases it exactly once and is safe to call from any goroutine,
// including concurrently with an in-flight snapshot delivery.
type Subscription[T any] struct {
	q    *queue[[]T]
	reg  store.Registration
	once sync.Once
}

// MapFunc converts one raw document into a typed entity. Returning false
// drops the record from the snapshot without affecting the rest.
type MapFunc[T any] func(doc store.Document) (T, bool)

// Subscribe opens a listener for q and republishes each snapshot, mapped
// through mapFn, on the returned subscription's Updates channel.
//
// A store error does not terminate the stream: it is emitted as an empty
// snapshot so consumers degrade to "no items", and the listener stays open
// to recover on the next successful notification.
func Subscribe[T any](docs store.DocumentStore, q store.Query, mapFn MapFunc[T]) (*Subscription[T], error) {
	s := &Subscription[T]{q: newQueue[[]T]()}

	reg, err := docs.Listen(q, func(snapshot []store.Document, err error) {
		if err != nil {
			s.q.push([]T{})
			return
		}
		// Order is exactly the store's sort order for the query; records the
		// mapper rejects are dropped silently.
		items := make([]T, 0, len(snapshot))
		for _, doc := range snapshot {
			if v, ok := mapFn(doc); ok {
				items = append(items, v)
			}
		}
		s.q.push(items)
	})
	if err != nil {
		s.q.close()
		return nil, err
	}
	s.reg = reg
	return s, nil
}

// Updates is the stream of current values. The channel is never closed;
// consumers select on Done to observe teardown.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.q.out
}

// Done is closed when the subscription has been closed.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.q.done
}

// Close tears down the remote listener and stops delivery. Snapshots that
// arrive after Close are dropped silently. Idempotent.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.q.close()
		if s.reg != nil {
			s.reg.Remove()
		}
	})
}

// DocSubscription is the single-document counterpart of Subscription,
// used for record-per-key state such as user profiles.
type DocSubscription[T any] struct {
	q    *queue[T]
	reg  store.Registration
	once sync.Once
}

// DocMapFunc converts the fields of one listened document. fields is nil
// when the document does not exist; the mapper decides what "no record"
// maps to (typically a nil pointer).
type DocMapFunc[T any] func(fields store.Fields) T

// SubscribeDoc opens a listener on a single document. Store errors emit the
// zero snapshot (mapFn applied to nil fields) and keep the listener open.
func SubscribeDoc[T any](docs store.DocumentStore, collection, id string, mapFn DocMapFunc[T]) (*DocSubscription[T], error) {
	s := &DocSubscription[T]{q: newQueue[T]()}

	reg, err := docs.ListenDoc(collection, id, func(fields store.Fields, err error) {
		if err != nil {
			s.q.push(mapFn(nil))
			return
		}
		s.q.push(mapFn(fields))
	})
	if err != nil {
		s.q.close()
		return nil, err
	}
	s.reg = reg
	return s, nil
}

// Updates is the stream of current values. Never closed; select on Done.
func (s *DocSubscription[T]) Updates() <-chan T {
	return s.q.out
}

// Done is closed when the subscription has been closed.
func (s *DocSubscription[T]) Done() <-chan struct{} {
	return s.q.done
}

// Close tears down the remote listener and stops delivery. Idempotent.
func (s *DocSubscription[T]) Close() {
	s.once.Do(func() {
		s.q.close()
		if s.reg != nil {
			s.reg.Remove()
		}
	})
}

// queue decouples listener callbacks from the consumer: push never blocks,
// a forwarder goroutine hands values to the out channel in order, and close
// stops delivery without racing an in-flight push.
type queue[T any] struct {
	mu      sync.Mutex
	pending []T
	closed  bool

	wake chan struct{}
	out  chan T
	done chan struct{}
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{
		wake: make(chan struct{}, 1),
		out:  make(chan T),
		done: make(chan struct{}),
	}
	go q.forward()
	return q
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, v)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue[T]) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.done)
}

func (q *queue[T]) forward() {
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			v := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()

			select {
			case q.out <- v:
			case <-q.done:
				return
			}
		}
	}
}
