// Package postgres implements the document store contract on PostgreSQL:
// one JSONB row per document, a NOTIFY trigger for change fan-out, and
// jsonb_set for atomic server-side increments.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// fieldNameRe guards field names interpolated into ORDER BY; parameters
// cannot be used there.
var fieldNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DocStore is a PostgreSQL-backed store.DocumentStore.
type DocStore struct {
	db *sql.DB

	mu      sync.Mutex
	subs    map[int]*subscriber
	nextSub int

	listener *pq.Listener
	stop     chan struct{}
	stopOnce sync.Once
}

type subscriber struct {
	id         int
	collection string
	poke       chan struct{}
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewDocStore creates the store and starts the LISTEN dispatcher on the
// document_changes channel. connInfo is the same DSN used to open db.
func NewDocStore(db *sql.DB, connInfo string) (*DocStore, error) {
	s := &DocStore{
		db:   db,
		subs: make(map[int]*subscriber),
		stop: make(chan struct{}),
	}

	s.listener = pq.NewListener(connInfo, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("[DOCSTORE] listener event %d: %v", ev, err)
		}
	})
	if err := s.listener.Listen("document_changes"); err != nil {
		return nil, fmt.Errorf("failed to LISTEN on document_changes: %w", err)
	}

	go s.dispatch()
	return s, nil
}

// Close stops the dispatcher and the underlying LISTEN connection.
func (s *DocStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.listener.Close()
}

// dispatch fans NOTIFY payloads (the mutated collection) out to the
// subscribers watching that collection. Each subscriber re-queries on its
// own goroutine, so a slow consumer cannot stall the LISTEN connection.
func (s *DocStore) dispatch() {
	for {
		select {
		case <-s.stop:
			return
		case n := <-s.listener.Notify:
			if n == nil {
				// Connection reset; snapshots may have been missed, so poke
				// everyone to re-query.
				s.pokeAll()
				continue
			}
			s.pokeCollection(n.Extra)
		case <-time.After(90 * time.Second):
			if err := s.listener.Ping(); err != nil {
				log.Printf("[DOCSTORE] listener ping failed: %v", err)
			}
		}
	}
}

func (s *DocStore) pokeCollection(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.collection == collection {
			select {
			case sub.poke <- struct{}{}:
			default:
			}
		}
	}
}

func (s *DocStore) pokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub.poke <- struct{}{}:
		default:
		}
	}
}

func (s *DocStore) Put(ctx context.Context, collection, id string, fields store.Fields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges partial fields into an existing document via jsonb
// concatenation.
func (s *DocStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	query := `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query, collection, id, payload)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *DocStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocStore) Get(ctx context.Context, collection, id string) (store.Fields, error) {
	query := `SELECT fields FROM documents WHERE collection = $1 AND id = $2`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}

	var fields store.Fields
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return fields, nil
}

func (s *DocStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	if !fieldNameRe.MatchString(q.OrderBy) {
		return nil, fmt.Errorf("invalid sort field %q", q.OrderBy)
	}

	query := `SELECT id, fields FROM documents WHERE collection = $1`
	args := []any{q.Collection}
	if q.Where != nil {
		query += ` AND fields->>$2 = $3`
		args = append(args, q.Where.Field, fmt.Sprintf("%v", q.Where.Value))
	}

	// Sorting on the raw jsonb value orders numbers numerically and strings
	// lexicographically, matching the remote store's per-field ordering.
	dir := "ASC"
	if q.Direction == store.Descending {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY fields->'%s' %s`, q.OrderBy, dir)
	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var fields store.Fields
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		docs = append(docs, store.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

// Increment adds delta to a numeric field in a single UPDATE, relying on
// the database's per-row write serialization so concurrent increments
// commute.
func (s *DocStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	query := `
		UPDATE documents
		SET fields = jsonb_set(fields, ARRAY[$3],
			to_jsonb(COALESCE((fields->>$3)::bigint, 0) + $4), true),
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query, collection, id, field, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *DocStore) NewID(collection string) string {
	return ulid.Make().String()
}

// Listen registers a query listener. A dedicated goroutine re-runs the
// query on every change notification for the collection and delivers the
// full result set; pokes are conflated, so bursts collapse into one
// authoritative snapshot.
func (s *DocStore) Listen(q store.Query, fn store.SnapshotFunc) (store.Registration, error) {
	sub := s.addSubscriber(q.Collection)
	go func() {
		s.snapshotQuery(q, fn)
		for {
			select {
			case <-sub.stop:
				return
			case <-sub.poke:
				s.snapshotQuery(q, fn)
			}
		}
	}()
	return &registration{store: s, sub: sub}, nil
}

func (s *DocStore) ListenDoc(collection, id string, fn store.DocSnapshotFunc) (store.Registration, error) {
	sub := s.addSubscriber(collection)
	go func() {
		s.snapshotDoc(collection, id, fn)
		for {
			select {
			case <-sub.stop:
				return
			case <-sub.poke:
				s.snapshotDoc(collection, id, fn)
			}
		}
	}()
	return &registration{store: s, sub: sub}, nil
}

func (s *DocStore) snapshotQuery(q store.Query, fn store.SnapshotFunc) {
	docs, err := s.Query(context.Background(), q)
	fn(docs, err)
}

func (s *DocStore) snapshotDoc(collection, id string, fn store.DocSnapshotFunc) {
	fields, err := s.Get(context.Background(), collection, id)
	if store.IsNotFound(err) {
		fn(nil, nil)
		return
	}
	fn(fields, err)
}

func (s *DocStore) addSubscriber(collection string) *subscriber {
	sub := &subscriber{
		collection: collection,
		poke:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	sub.id = id
	s.mu.Unlock()
	return sub
}

type registration struct {
	store *DocStore
	sub   *subscriber
}

// Remove detaches the listener. Idempotent.
func (r *registration) Remove() {
	r.sub.stopOnce.Do(func() {
		close(r.sub.stop)
		r.store.mu.Lock()
		delete(r.store.subs, r.sub.id)
		r.store.mu.Unlock()
	})
}
