package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_OwnerIsolation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	mine, err := s.Add(ctx, "u-1", "items", json.RawMessage(`{"name":"Coat"}`))
	require.NoError(t, err)
	_, err = s.Add(ctx, "u-2", "items", json.RawMessage(`{"name":"Hat"}`))
	require.NoError(t, err)

	_, err = s.Get(ctx, "u-2", "items", mine.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	page, err := s.List(ctx, Query{OwnerID: "u-1", Kind: "items"})
	require.NoError(t, err)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "u-1", page.Documents[0].OwnerID)
}

func TestInMemory_ListOrderAndPagination(t *testing.T) {
	s := NewInMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Add(ctx, "u-1", "items", json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
		require.NoError(t, err)
	}

	first, err := s.List(ctx, Query{OwnerID: "u-1", Kind: "items", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Documents, 2)
	require.NotEmpty(t, first.Cursor)
	assert.Equal(t, json.RawMessage(`{"n":4}`), first.Documents[0].Data)

	second, err := s.List(ctx, Query{OwnerID: "u-1", Kind: "items", Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Documents, 2)
	assert.Equal(t, json.RawMessage(`{"n":2}`), second.Documents[0].Data)

	third, err := s.List(ctx, Query{OwnerID: "u-1", Kind: "items", Limit: 2, Cursor: second.Cursor})
	require.NoError(t, err)
	require.Len(t, third.Documents, 1)
	assert.Empty(t, third.Cursor)
}

func TestInMemory_PaginationStableUnderSharedTimestamps(t *testing.T) {
	s := NewInMemoryStore()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		d, err := s.Add(ctx, "u-1", "items", json.RawMessage(`{}`))
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}

	seen := map[string]bool{}
	cursor := ""
	for {
		page, err := s.List(ctx, Query{OwnerID: "u-1", Kind: "items", Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, d := range page.Documents {
			require.False(t, seen[d.ID], "document %s returned twice", d.ID)
			seen[d.ID] = true
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	assert.Len(t, seen, len(ids))
}

func TestInMemory_MergePreservesAbsentKeys(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	d, err := s.Add(ctx, "u-1", "items", json.RawMessage(`{"name":"Coat","category":"Outerwear"}`))
	require.NoError(t, err)

	got, err := s.Merge(ctx, "u-1", "items", d.ID, json.RawMessage(`{"name":"Winter coat"}`))
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(got.Data, &m))
	assert.Equal(t, "Winter coat", m["name"])
	assert.Equal(t, "Outerwear", m["category"])
}

func TestInMemory_DeleteAndCount(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	d, err := s.Add(ctx, "u-1", "items", json.RawMessage(`{}`))
	require.NoError(t, err)

	n, err := s.Count(ctx, "u-1", "items")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Delete(ctx, "u-1", "items", d.ID))
	assert.ErrorIs(t, s.Delete(ctx, "u-1", "items", d.ID), common.ErrNotFound)

	n, err = s.Count(ctx, "u-1", "items")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
