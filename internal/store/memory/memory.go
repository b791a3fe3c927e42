// Package memory is an in-process implementation of the backend contracts,
// used by tests and the dev server. It honors the same snapshot semantics
// as the remote store: every listener receives the full current result set
// on attach and after every mutation in its collection.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// DocStore is an in-memory store.DocumentStore.
type DocStore struct {
	mu          sync.Mutex
	collections map[string]map[string]store.Fields
	listeners   map[int]*listener
	nextID      int
}

type listener struct {
	// Exactly one of query/doc listening modes is set.
	query  *store.Query
	docCol string
	docID  string

	fn    store.SnapshotFunc
	docFn store.DocSnapshotFunc
}

// NewDocStore creates an empty in-memory document store.
func NewDocStore() *DocStore {
	return &DocStore{
		collections: make(map[string]map[string]store.Fields),
		listeners:   make(map[int]*listener),
	}
}

func (s *DocStore) Put(ctx context.Context, collection, id string, fields store.Fields) error {
	s.mu.Lock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]store.Fields)
		s.collections[collection] = col
	}
	col[id] = fields.Clone()
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *DocStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	s.mu.Lock()
	col := s.collections[collection]
	existing, ok := col[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *DocStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if col, ok := s.collections[collection]; ok {
		delete(col, id)
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *DocStore) Get(ctx context.Context, collection, id string) (store.Fields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[collection]; ok {
		if fields, ok := col[id]; ok {
			return fields.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *DocStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runQuery(q), nil
}

func (s *DocStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	col := s.collections[collection]
	fields, ok := col[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	fields[field] = fields.Int64(field) + delta
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *DocStore) NewID(collection string) string {
	return ulid.Make().String()
}

// Listen registers a query listener. The initial snapshot is delivered
// synchronously before Listen returns, matching the remote store's
// "current result set on attach" behavior.
func (s *DocStore) Listen(q store.Query, fn store.SnapshotFunc) (store.Registration, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = &listener{query: &q, fn: fn}
	snapshot := s.runQuery(q)
	s.mu.Unlock()

	fn(snapshot, nil)
	return &registration{store: s, id: id}, nil
}

func (s *DocStore) ListenDoc(collection, id string, fn store.DocSnapshotFunc) (store.Registration, error) {
	s.mu.Lock()
	regID := s.nextID
	s.nextID++
	s.listeners[regID] = &listener{docCol: collection, docID: id, docFn: fn}
	fields := s.getLocked(collection, id)
	s.mu.Unlock()

	fn(fields, nil)
	return &registration{store: s, id: regID}, nil
}

// notify re-runs every listener attached to the collection and delivers the
// full current result set. Snapshots are computed under the lock; callbacks
// run outside it, sequentially in the mutating goroutine.
func (s *DocStore) notify(collection string) {
	type delivery struct {
		l      *listener
		docs   []store.Document
		fields store.Fields
	}

	s.mu.Lock()
	var due []delivery
	for _, l := range s.listeners {
		switch {
		case l.query != nil && l.query.Collection == collection:
			due = append(due, delivery{l: l, docs: s.runQuery(*l.query)})
		case l.docFn != nil && l.docCol == collection:
			due = append(due, delivery{l: l, fields: s.getLocked(l.docCol, l.docID)})
		}
	}
	s.mu.Unlock()

	for _, d := range due {
		if d.l.query != nil {
			d.l.fn(d.docs, nil)
		} else {
			d.l.docFn(d.fields, nil)
		}
	}
}

func (s *DocStore) getLocked(collection, id string) store.Fields {
	if col, ok := s.collections[collection]; ok {
		if fields, ok := col[id]; ok {
			return fields.Clone()
		}
	}
	return nil
}

// runQuery evaluates a query against current state. Caller holds the lock.
func (s *DocStore) runQuery(q store.Query) []store.Document {
	col := s.collections[q.Collection]
	docs := make([]store.Document, 0, len(col))
	for id, fields := range col {
		if q.Where != nil && !matches(fields, *q.Where) {
			continue
		}
		docs = append(docs, store.Document{ID: id, Fields: fields.Clone()})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		less := fieldLess(docs[i].Fields, docs[j].Fields, q.OrderBy)
		if q.Direction == store.Descending {
			return !less && !fieldEqual(docs[i].Fields, docs[j].Fields, q.OrderBy)
		}
		return less
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

func matches(fields store.Fields, f store.Filter) bool {
	switch v := f.Value.(type) {
	case string:
		return fields.String(f.Field) == v
	case int64:
		return fields.Int64(f.Field) == v
	case int:
		return fields.Int64(f.Field) == int64(v)
	default:
		return false
	}
}

// fieldLess orders by numeric value when both sides are numeric, falling
// back to string comparison.
func fieldLess(a, b store.Fields, field string) bool {
	av, aNum := numericValue(a[field])
	bv, bNum := numericValue(b[field])
	if aNum && bNum {
		return av < bv
	}
	return a.String(field) < b.String(field)
}

func fieldEqual(a, b store.Fields, field string) bool {
	av, aNum := numericValue(a[field])
	bv, bNum := numericValue(b[field])
	if aNum && bNum {
		return av == bv
	}
	return a.String(field) == b.String(field)
}

func numericValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

type registration struct {
	store *DocStore
	id    int
	once  sync.Once
}

// Remove detaches the listener. Idempotent.
func (r *registration) Remove() {
	r.once.Do(func() {
		r.store.mu.Lock()
		delete(r.store.listeners, r.id)
		r.store.mu.Unlock()
	})
}
