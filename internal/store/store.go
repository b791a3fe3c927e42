// Package store defines the backend contracts the sync core depends on:
// a document store with live snapshot listeners, a blob store, and an
// identity provider. Adapters live in the subpackages (memory, postgres,
// redis, disk); the core never imports an adapter directly.
package store

import "context"

// Document is a single record returned from a query or snapshot:
// the store's own key plus the untyped field map.
type Document struct {
	ID     string
	Fields Fields
}

// Registration is a handle on one live listener.
// Remove is idempotent and safe to call from any goroutine.
type Registration interface {
	Remove()
}

// SnapshotFunc receives the full current result set for a listened query on
// every change. Notifications for one registration are delivered
// sequentially, never concurrently. A non-nil err means the store could not
// produce a snapshot; the listener stays registered and may recover.
type SnapshotFunc func(docs []Document, err error)

// DocSnapshotFunc receives the current fields of a single listened document.
// fields is nil when the document does not exist.
type DocSnapshotFunc func(fields Fields, err error)

// DocumentStore is the remote authenticated document store contract.
type DocumentStore interface {
	// Put writes the full document, replacing any existing fields.
	Put(ctx context.Context, collection, id string, fields Fields) error

	// Update merges the given fields into an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Get returns the fields of a document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Fields, error)

	// Query runs a one-shot filtered, ordered, capped query.
	Query(ctx context.Context, q Query) ([]Document, error)

	// Listen opens a live listener on a query. The callback fires with the
	// full current result set immediately and again after every change that
	// affects the result window.
	Listen(q Query, fn SnapshotFunc) (Registration, error)

	// ListenDoc opens a live listener on a single document.
	ListenDoc(collection, id string, fn DocSnapshotFunc) (Registration, error)

	// Increment atomically adds delta to a numeric field server-side.
	// Returns ErrNotFound if the document does not exist.
	Increment(ctx context.Context, collection, id, field string, delta int64) error

	// NewID returns a fresh document id, generated client-side so callers
	// can derive dependent resources (blob paths) before the record exists.
	NewID(collection string) string
}

// BlobStore is the remote blob store contract. Paths are slash-separated
// keys, not URLs.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) error
	PutFile(ctx context.Context, path, localPath string) error
	Delete(ctx context.Context, path string) error
	URL(ctx context.Context, path string) (string, error)
}

// Identity resolves the current authenticated identity, if any.
type Identity interface {
	CurrentUID(ctx context.Context) (string, bool)
}
