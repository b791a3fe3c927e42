// Package redis implements the document store contract on Redis: one hash
// per document, a sorted set per collection scored by createdAt for ordered
// reads, and pub/sub for change notification. Counter fields live directly
// in the document hash so HINCRBY gives atomic server-side increments.
package redis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/oklog/ulid/v2"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// DocStore is a Redis-backed store.DocumentStore. Hash values are strings;
// the Fields accessors parse numerics back out on read.
type DocStore struct {
	client *redis.Client
}

// NewDocStore creates a Redis document store.
func NewDocStore(client *redis.Client) *DocStore {
	return &DocStore{client: client}
}

func docKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func indexKey(collection string) string {
	return "idx:" + collection
}

func channel(collection string) string {
	return "docstore:" + collection
}

func encodeFields(fields store.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch n := v.(type) {
		case string:
			out[k] = n
		case int64:
			out[k] = strconv.FormatInt(n, 10)
		case int:
			out[k] = strconv.Itoa(n)
		case float64:
			out[k] = strconv.FormatInt(int64(n), 10)
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func decodeFields(raw map[string]string) store.Fields {
	fields := make(store.Fields, len(raw))
	for k, v := range raw {
		fields[k] = v
	}
	return fields
}

func (s *DocStore) publish(ctx context.Context, collection string) {
	if err := s.client.Publish(ctx, channel(collection), "").Err(); err != nil {
		log.Printf("[DOCSTORE] publish failed for %s: %v", collection, err)
	}
}

func (s *DocStore) Put(ctx context.Context, collection, id string, fields store.Fields) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.HSet(ctx, docKey(collection, id), encodeFields(fields))
	pipe.ZAdd(ctx, indexKey(collection), &redis.Z{
		Score:  float64(fields.Int64("createdAt")),
		Member: id,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}
	s.publish(ctx, collection)
	return nil
}

func (s *DocStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	exists, err := s.client.Exists(ctx, docKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check document %s/%s: %w", collection, id, err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	if err := s.client.HSet(ctx, docKey(collection, id), encodeFields(fields)).Err(); err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	s.publish(ctx, collection)
	return nil
}

func (s *DocStore) Delete(ctx context.Context, collection, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.ZRem(ctx, indexKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	s.publish(ctx, collection)
	return nil
}

func (s *DocStore) Get(ctx context.Context, collection, id string) (store.Fields, error) {
	raw, err := s.client.HGetAll(ctx, docKey(collection, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if len(raw) == 0 {
		return nil, store.ErrNotFound
	}
	return decodeFields(raw), nil
}

func (s *DocStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	// Ids come back already ordered when sorting on the indexed field;
	// otherwise load everything and sort here.
	indexed := q.OrderBy == "createdAt"

	var ids []string
	var err error
	if indexed && q.Direction == store.Descending {
		ids, err = s.client.ZRevRange(ctx, indexKey(q.Collection), 0, -1).Result()
	} else {
		ids, err = s.client.ZRange(ctx, indexKey(q.Collection), 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index for %s: %w", q.Collection, err)
	}

	docs := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		raw, err := s.client.HGetAll(ctx, docKey(q.Collection, id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load document %s/%s: %w", q.Collection, id, err)
		}
		if len(raw) == 0 {
			continue // index entry for a vanished document
		}
		fields := decodeFields(raw)
		if q.Where != nil && fields.String(q.Where.Field) != fmt.Sprintf("%v", q.Where.Value) {
			continue
		}
		docs = append(docs, store.Document{ID: id, Fields: fields})
	}

	if !indexed {
		sort.SliceStable(docs, func(i, j int) bool {
			a, b := docs[i].Fields, docs[j].Fields
			if q.Direction == store.Descending {
				a, b = b, a
			}
			an, aErr := strconv.ParseInt(a.String(q.OrderBy), 10, 64)
			bn, bErr := strconv.ParseInt(b.String(q.OrderBy), 10, 64)
			if aErr == nil && bErr == nil {
				return an < bn
			}
			return a.String(q.OrderBy) < b.String(q.OrderBy)
		})
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *DocStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	exists, err := s.client.Exists(ctx, docKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check document %s/%s: %w", collection, id, err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	if err := s.client.HIncrBy(ctx, docKey(collection, id), field, delta).Err(); err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	s.publish(ctx, collection)
	return nil
}

func (s *DocStore) NewID(collection string) string {
	return ulid.Make().String()
}

// Listen subscribes to the collection's pub/sub channel and re-runs the
// query on every message, delivering full snapshots.
func (s *DocStore) Listen(q store.Query, fn store.SnapshotFunc) (store.Registration, error) {
	pubsub := s.client.Subscribe(context.Background(), channel(q.Collection))
	go func() {
		snapshot := func() {
			docs, err := s.Query(context.Background(), q)
			fn(docs, err)
		}
		snapshot()
		for range pubsub.Channel() {
			snapshot()
		}
	}()
	return &registration{pubsub: pubsub}, nil
}

func (s *DocStore) ListenDoc(collection, id string, fn store.DocSnapshotFunc) (store.Registration, error) {
	pubsub := s.client.Subscribe(context.Background(), channel(collection))
	go func() {
		snapshot := func() {
			fields, err := s.Get(context.Background(), collection, id)
			if store.IsNotFound(err) {
				fn(nil, nil)
				return
			}
			fn(fields, err)
		}
		snapshot()
		for range pubsub.Channel() {
			snapshot()
		}
	}()
	return &registration{pubsub: pubsub}, nil
}

type registration struct {
	pubsub *redis.PubSub
	once   sync.Once
}

// Remove closes the pub/sub subscription, which also ends the snapshot
// goroutine. Idempotent.
func (r *registration) Remove() {
	r.once.Do(func() {
		if err := r.pubsub.Close(); err != nil {
			log.Printf("[DOCSTORE] failed to close pubsub: %v", err)
		}
	})
}
