package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

func TestQueryFilterSortLimit(t *testing.T) {
	s := NewDocStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "posts", "p1", store.Fields{"ownerUid": "u1", "createdAt": int64(100)}))
	require.NoError(t, s.Put(ctx, "posts", "p2", store.Fields{"ownerUid": "u2", "createdAt": int64(300)}))
	require.NoError(t, s.Put(ctx, "posts", "p3", store.Fields{"ownerUid": "u1", "createdAt": int64(200)}))

	t.Run("descending order", func(t *testing.T) {
		docs, err := s.Query(ctx, store.Query{
			Collection: "posts", OrderBy: "createdAt", Direction: store.Descending,
		})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "p2", docs[0].ID)
		assert.Equal(t, "p3", docs[1].ID)
		assert.Equal(t, "p1", docs[2].ID)
	})

	t.Run("equality filter", func(t *testing.T) {
		docs, err := s.Query(ctx, store.Query{
			Collection: "posts",
			Where:      &store.Filter{Field: "ownerUid", Value: "u1"},
			OrderBy:    "createdAt", Direction: store.Descending,
		})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "p3", docs[0].ID)
		assert.Equal(t, "p1", docs[1].ID)
	})

	t.Run("limit caps the window", func(t *testing.T) {
		docs, err := s.Query(ctx, store.Query{
			Collection: "posts", OrderBy: "createdAt", Direction: store.Descending, Limit: 2,
		})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "p2", docs[0].ID)
	})
}

func TestUpdateMergesAndMissingDocFails(t *testing.T) {
	s := NewDocStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "users", "u1", store.Fields{"displayName": "Amit", "photoPath": "users/u1/avatar.jpg"}))
	require.NoError(t, s.Update(ctx, "users", "u1", store.Fields{"displayName": "Amit L"}))

	fields, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Amit L", fields.String("displayName"))
	assert.Equal(t, "users/u1/avatar.jpg", fields.String("photoPath"), "merge must keep untouched fields")

	assert.ErrorIs(t, s.Update(ctx, "users", "missing", store.Fields{"displayName": "x"}), store.ErrNotFound)
}

func TestIncrementIsAtomicUnderConcurrency(t *testing.T) {
	s := NewDocStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "posts", "p1", store.Fields{"likesCount": int64(0)}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Increment(ctx, "posts", "p1", "likesCount", 1))
		}()
	}
	wg.Wait()

	fields, err := s.Get(ctx, "posts", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), fields.Int64("likesCount"))
}

func TestListenDeliversInitialAndChangeSnapshots(t *testing.T) {
	s := NewDocStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "posts", "p1", store.Fields{"createdAt": int64(1)}))

	var mu sync.Mutex
	var snapshots [][]store.Document
	reg, err := s.Listen(store.Query{Collection: "posts", OrderBy: "createdAt"}, func(docs []store.Document, err error) {
		require.NoError(t, err)
		mu.Lock()
		snapshots = append(snapshots, docs)
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "posts", "p2", store.Fields{"createdAt": int64(2)}))
	require.NoError(t, s.Delete(ctx, "posts", "p1"))

	mu.Lock()
	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[0], 1, "initial snapshot on attach")
	assert.Len(t, snapshots[1], 2)
	assert.Len(t, snapshots[2], 1)
	assert.Equal(t, "p2", snapshots[2][0].ID)
	mu.Unlock()

	// After removal no further snapshots arrive; Remove is idempotent.
	reg.Remove()
	reg.Remove()
	require.NoError(t, s.Put(ctx, "posts", "p3", store.Fields{"createdAt": int64(3)}))
	mu.Lock()
	assert.Len(t, snapshots, 3)
	mu.Unlock()
}

func TestListenDocTracksSingleDocument(t *testing.T) {
	s := NewDocStore()
	ctx := context.Background()

	var mu sync.Mutex
	var snapshots []store.Fields
	reg, err := s.ListenDoc("users", "u1", func(fields store.Fields, err error) {
		require.NoError(t, err)
		mu.Lock()
		snapshots = append(snapshots, fields)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer reg.Remove()

	require.NoError(t, s.Put(ctx, "users", "u1", store.Fields{"displayName": "Amit"}))
	require.NoError(t, s.Delete(ctx, "users", "u1"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snapshots, 3)
	assert.Nil(t, snapshots[0], "no record yet on attach")
	assert.Equal(t, "Amit", snapshots[1].String("displayName"))
	assert.Nil(t, snapshots[2], "deleted record maps back to nil")
}

func TestNewIDIsUniqueAndNonEmpty(t *testing.T) {
	s := NewDocStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.NewID("posts")
		require.NotEmpty(t, id)
		require.False(t, seen[id], "ids must never repeat")
		seen[id] = true
	}
}
