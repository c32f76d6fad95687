package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/google/uuid"
)

// InMemoryStore keeps documents in process memory. It mirrors the ordering
// and cursor semantics of the SQL store and is meant for tests and offline
// development.
type InMemoryStore struct {
	mu   sync.Mutex
	docs map[string]*Document // keyed by owner/kind/id
	now  func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: map[string]*Document{}, now: time.Now}
}

var _ Store = (*InMemoryStore)(nil)

func key(ownerID, kind, id string) string {
	return ownerID + "/" + kind + "/" + id
}

func (s *InMemoryStore) Add(ctx context.Context, ownerID, kind string, data json.RawMessage) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	d := &Document{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Kind:      kind,
		Data:      append(json.RawMessage(nil), data...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.docs[key(ownerID, kind, d.ID)] = d

	out := *d
	return &out, nil
}

func (s *InMemoryStore) Get(ctx context.Context, ownerID, kind, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[key(ownerID, kind, id)]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *d
	return &out, nil
}

func (s *InMemoryStore) List(ctx context.Context, q Query) (*Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var after *cursor
	if q.Cursor != "" {
		c, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, err
		}
		after = &c
	}

	s.mu.Lock()
	var all []*Document
	for _, d := range s.docs {
		if d.OwnerID == q.OwnerID && d.Kind == q.Kind {
			all = append(all, d)
		}
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	page := &Page{}
	for _, d := range all {
		if after != nil {
			if d.CreatedAt.After(after.CreatedAt) ||
				(d.CreatedAt.Equal(after.CreatedAt) && d.ID <= after.ID) {
				continue
			}
		}
		if len(page.Documents) == limit {
			last := page.Documents[limit-1]
			page.Cursor = encodeCursor(cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			return page, nil
		}
		page.Documents = append(page.Documents, *d)
	}
	return page, nil
}

func (s *InMemoryStore) Merge(ctx context.Context, ownerID, kind, id string, patch json.RawMessage) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[key(ownerID, kind, id)]
	if !ok {
		return nil, common.ErrNotFound
	}

	var base, overlay map[string]json.RawMessage
	if err := json.Unmarshal(d.Data, &base); err != nil {
		return nil, fmt.Errorf("stored document unparseable: %w", err)
	}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("%w: patch is not a JSON object", common.ErrInvalidEntry)
	}
	for k, v := range overlay {
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	d.Data = merged
	d.UpdatedAt = s.now()

	out := *d
	return &out, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, ownerID, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(ownerID, kind, id)
	if _, ok := s.docs[k]; !ok {
		return common.ErrNotFound
	}
	delete(s.docs, k)
	return nil
}

func (s *InMemoryStore) Count(ctx context.Context, ownerID, kind string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, d := range s.docs {
		if d.OwnerID == ownerID && d.Kind == kind {
			n++
		}
	}
	return n, nil
}
