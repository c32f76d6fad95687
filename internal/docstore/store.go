// Package docstore persists owner-scoped JSON documents grouped into named
// collections, with cursor pagination and per-collection counts maintained
// alongside writes.
package docstore

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one stored entry. Data holds the entry body as raw JSON; the
// surrounding fields are maintained by the store.
type Document struct {
	ID        string
	OwnerID   string
	Kind      string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is one page of a Query result. Cursor is opaque; pass it back to
// Query to continue, empty means the listing is exhausted.
type Page struct {
	Documents []Document
	Cursor    string
}

// Query selects documents within one owner's collection.
type Query struct {
	OwnerID string
	Kind    string
	Limit   int
	Cursor  string
}

// Store is the document storage contract the catalog facade builds on.
// Every operation is scoped to a single owner; implementations never return
// another owner's documents.
type Store interface {
	// Add inserts a new document and returns it with ID and timestamps set.
	Add(ctx context.Context, ownerID, kind string, data json.RawMessage) (*Document, error)

	// Get returns one document by id within the owner's collection.
	Get(ctx context.Context, ownerID, kind, id string) (*Document, error)

	// List returns documents newest-first, paginated by opaque cursor.
	List(ctx context.Context, q Query) (*Page, error)

	// Merge shallow-merges the given JSON object over the stored document
	// body. Absent keys are preserved; present keys are overwritten.
	Merge(ctx context.Context, ownerID, kind, id string, patch json.RawMessage) (*Document, error)

	// Delete removes one document.
	Delete(ctx context.Context, ownerID, kind, id string) error

	// Count returns the number of documents in the owner's collection.
	Count(ctx context.Context, ownerID, kind string) (int64, error)
}
