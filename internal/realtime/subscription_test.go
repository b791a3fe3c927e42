package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// fakeDocStore captures the listener callback so tests can simulate remote
// snapshot notifications directly.
type fakeDocStore struct {
	fn      store.SnapshotFunc
	docFn   store.DocSnapshotFunc
	removed int32
}

func (f *fakeDocStore) Listen(q store.Query, fn store.SnapshotFunc) (store.Registration, error) {
	f.fn = fn
	return &fakeRegistration{removed: &f.removed}, nil
}

func (f *fakeDocStore) ListenDoc(collection, id string, fn store.DocSnapshotFunc) (store.Registration, error) {
	f.docFn = fn
	return &fakeRegistration{removed: &f.removed}, nil
}

func (f *fakeDocStore) Put(ctx context.Context, collection, id string, fields store.Fields) error {
	return nil
}
func (f *fakeDocStore) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	return nil
}
func (f *fakeDocStore) Delete(ctx context.Context, collection, id string) error { return nil }
func (f *fakeDocStore) Get(ctx context.Context, collection, id string) (store.Fields, error) {
	return nil, store.ErrNotFound
}
func (f *fakeDocStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	return nil, nil
}
func (f *fakeDocStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	return nil
}
func (f *fakeDocStore) NewID(collection string) string { return "fake-id" }

type fakeRegistration struct {
	removed *int32
}

func (r *fakeRegistration) Remove() {
	atomic.AddInt32(r.removed, 1)
}

func mapID(doc store.Document) (string, bool) {
	if doc.Fields.String("skip") == "yes" {
		return "", false
	}
	return doc.ID, true
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		panic("unreachable")
	}
}

func expectNone[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected delivery: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func docs(ids ...string) []store.Document {
	out := make([]store.Document, len(ids))
	for i, id := range ids {
		out[i] = store.Document{ID: id, Fields: store.Fields{}}
	}
	return out
}

func TestSubscribeDeliversEverySnapshotInOrder(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)
	defer sub.Close()

	fake.fn(docs("a"), nil)
	fake.fn(docs("a", "b"), nil)
	fake.fn(docs("b"), nil)

	assert.Equal(t, []string{"a"}, receive(t, sub.Updates()))
	assert.Equal(t, []string{"a", "b"}, receive(t, sub.Updates()))
	assert.Equal(t, []string{"b"}, receive(t, sub.Updates()))
}

func TestSubscribeDropsMapperRejectedRecords(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)
	defer sub.Close()

	fake.fn([]store.Document{
		{ID: "keep", Fields: store.Fields{}},
		{ID: "drop", Fields: store.Fields{"skip": "yes"}},
		{ID: "keep2", Fields: store.Fields{}},
	}, nil)

	assert.Equal(t, []string{"keep", "keep2"}, receive(t, sub.Updates()))
}

func TestSubscribeTranslatesErrorsToEmptySnapshots(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)
	defer sub.Close()

	fake.fn(nil, assert.AnError)
	assert.Empty(t, receive(t, sub.Updates()))

	// The listener stays open and recovers on the next notification.
	fake.fn(docs("back"), nil)
	assert.Equal(t, []string{"back"}, receive(t, sub.Updates()))
}

func TestCloseRemovesListenerExactlyOnce(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)

	sub.Close()
	sub.Close()
	sub.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.removed))
}

func TestSnapshotAfterCloseIsDroppedSilently(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)

	sub.Close()

	// Must neither panic nor deliver.
	fake.fn(docs("late"), nil)
	expectNone(t, sub.Updates())
}

func TestCloseRacesSafelyWithInFlightDelivery(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := Subscribe(fake, store.Query{Collection: "posts", OrderBy: "createdAt"}, mapID)
	require.NoError(t, err)

	go func() {
		for i := 0; i < 100; i++ {
			fake.fn(docs("x"), nil)
		}
	}()
	go sub.Close()

	// Drain until Done; nothing should panic or deadlock.
	for {
		select {
		case <-sub.Updates():
		case <-sub.Done():
			return
		case <-time.After(2 * time.Second):
			t.Fatal("close never completed")
		}
	}
}

func TestSubscribeDocEmitsNilForMissingRecordAndOnError(t *testing.T) {
	fake := &fakeDocStore{}
	sub, err := SubscribeDoc(fake, "users", "u1", func(fields store.Fields) *string {
		if fields == nil {
			return nil
		}
		name := fields.String("displayName")
		return &name
	})
	require.NoError(t, err)
	defer sub.Close()

	fake.docFn(nil, nil)
	assert.Nil(t, receive(t, sub.Updates()))

	fake.docFn(store.Fields{"displayName": "Amit"}, nil)
	got := receive(t, sub.Updates())
	require.NotNil(t, got)
	assert.Equal(t, "Amit", *got)

	fake.docFn(nil, assert.AnError)
	assert.Nil(t, receive(t, sub.Updates()))
}
