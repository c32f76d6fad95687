package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/docstore"
	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuota allows creation until the count reaches limit; premium means
// unlimited.
type fakeQuota struct {
	premium bool
	limits  map[Kind]int64
	err     error
}

func (f *fakeQuota) CanCreate(ctx context.Context, userID string, kind Kind, currentCount int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.premium {
		return true, nil
	}
	return currentCount < f.limits[kind], nil
}

func defaultQuota() *fakeQuota {
	return &fakeQuota{limits: map[Kind]int64{KindItem: 20, KindOutfit: 10, KindLookbook: 3}}
}

func newTestFacade(quota QuotaChecker) (*Facade, *docstore.InMemoryStore) {
	store := docstore.NewInMemoryStore()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewFacade(store, quota, 20, log), store
}

var owner = &identity.Principal{ID: "u-1", Email: "a@x.com"}

func validItem() Item {
	return Item{
		Name:        "Wool coat",
		Category:    "Outerwear",
		SubCategory: "Coats",
		Size:        "M",
		Material:    "Wool",
		Color:       "Navy",
		Price:       "120",
		Note:        "dry clean only",
	}
}

func TestCreateItem_NilOwner(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())

	_, err := f.CreateItem(context.Background(), nil, validItem())
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestCreateItem_RoundTrip(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	id, err := f.CreateItem(ctx, owner, validItem())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := f.GetItem(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Wool coat", got.Name)
	assert.Equal(t, "Outerwear", got.Category)
	assert.Equal(t, "Coats", got.SubCategory)
	assert.Equal(t, "M", got.Size)
	assert.Equal(t, "Wool", got.Material)
	assert.Equal(t, "120", got.Price)
	assert.Equal(t, "dry clean only", got.Note)
}

func TestCreateItem_InvalidCategory(t *testing.T) {
	f, store := newTestFacade(defaultQuota())
	ctx := context.Background()

	item := validItem()
	item.Category = "Gadgets"
	_, err := f.CreateItem(ctx, owner, item)
	assert.ErrorIs(t, err, common.ErrInvalidEntry)

	// rejected before any store write
	n, err := store.Count(ctx, owner.ID, string(KindItem))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateOutfit_RequiresTwoItems(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	_, err := f.CreateOutfit(ctx, owner, Outfit{
		Name:    "Monday",
		ItemIDs: []string{"i-1"},
	})
	assert.ErrorIs(t, err, common.ErrInvalidEntry)

	_, err = f.CreateOutfit(ctx, owner, Outfit{
		Name:    "Monday",
		ItemIDs: []string{"i-1", "i-2"},
	})
	assert.NoError(t, err)
}

func TestCreateLookbook_StoresSummaries(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	outfit := Outfit{ID: "o-1", Name: "Monday", ItemIDs: []string{"i-1", "i-2"}, Description: "private"}
	id, err := f.CreateLookbook(ctx, owner, Lookbook{
		Name:    "Spring capsule",
		Outfits: []OutfitSummary{Summarize(outfit)},
	})
	require.NoError(t, err)

	got, err := f.GetLookbook(ctx, owner, id)
	require.NoError(t, err)
	require.Len(t, got.Outfits, 1)
	assert.Equal(t, "o-1", got.Outfits[0].ID)
	assert.Equal(t, []string{"i-1", "i-2"}, got.Outfits[0].ItemIDs)
}

func TestCreate_QuotaExceeded(t *testing.T) {
	quota := defaultQuota()
	quota.limits[KindLookbook] = 1
	f, _ := newTestFacade(quota)
	ctx := context.Background()

	lb := Lookbook{Name: "One", Outfits: []OutfitSummary{{ID: "o-1", Name: "A"}}}
	_, err := f.CreateLookbook(ctx, owner, lb)
	require.NoError(t, err)

	lb.Name = "Two"
	_, err = f.CreateLookbook(ctx, owner, lb)
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)
}

func TestCreate_QuotaMessageUsesSharedLimits(t *testing.T) {
	quota := defaultQuota()
	quota.limits[KindItem] = 0
	f, _ := newTestFacade(quota)

	_, err := f.CreateItem(context.Background(), owner, validItem())
	require.ErrorIs(t, err, common.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), fmt.Sprintf("up to %d items", FreeLimits[KindItem]))
}

func TestCreate_PremiumBypassesQuota(t *testing.T) {
	quota := defaultQuota()
	quota.premium = true
	quota.limits[KindItem] = 0
	f, _ := newTestFacade(quota)

	_, err := f.CreateItem(context.Background(), owner, validItem())
	assert.NoError(t, err)
}

func TestGetItem_OtherOwnersEntryInvisible(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	id, err := f.CreateItem(ctx, owner, validItem())
	require.NoError(t, err)

	stranger := &identity.Principal{ID: "u-2", Email: "b@x.com"}
	_, err = f.GetItem(ctx, stranger, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListItems_Pagination(t *testing.T) {
	store := docstore.NewInMemoryStore()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f := NewFacade(store, defaultQuota(), 2, log)
	ctx := context.Background()

	for _, name := range []string{"Coat", "Hat", "Boots"} {
		_, err := f.CreateItem(ctx, owner, Item{Name: name, Category: "Other"})
		require.NoError(t, err)
	}

	first, err := f.ListItems(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, first.Entries, 2)
	require.NotEmpty(t, first.Cursor)

	second, err := f.ListItems(ctx, owner, first.Cursor)
	require.NoError(t, err)
	assert.Len(t, second.Entries, 1)
	assert.Empty(t, second.Cursor)
}

func TestUpdateItem_MergesPatch(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	id, err := f.CreateItem(ctx, owner, validItem())
	require.NoError(t, err)

	got, err := f.UpdateItem(ctx, owner, id, json.RawMessage(`{"color":"Black"}`))
	require.NoError(t, err)
	assert.Equal(t, "Black", got.Color)
	assert.Equal(t, "Wool coat", got.Name)
}

func TestUpdateItem_RejectsInvalidMergedEntry(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	id, err := f.CreateItem(ctx, owner, validItem())
	require.NoError(t, err)

	_, err = f.UpdateItem(ctx, owner, id, json.RawMessage(`{"category":"Garbage"}`))
	assert.ErrorIs(t, err, common.ErrInvalidEntry)

	// the stored entry is untouched
	got, err := f.GetItem(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, "Outerwear", got.Category)
}

func TestUpdateItem_RejectsNonObjectPatch(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	id, err := f.CreateItem(ctx, owner, validItem())
	require.NoError(t, err)

	for _, patch := range []string{`"hi"`, `[1,2]`, `42`, `not json`} {
		_, err = f.UpdateItem(ctx, owner, id, json.RawMessage(patch))
		assert.ErrorIs(t, err, common.ErrInvalidEntry, "patch %s", patch)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())

	_, err := f.UpdateItem(context.Background(), owner, "ghost", json.RawMessage(`{"color":"Black"}`))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteMany_PartialFailure(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Coat", "Hat", "Boots"} {
		id, err := f.CreateItem(ctx, owner, Item{Name: name, Category: "Other"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	result, err := f.DeleteMany(ctx, owner, KindItem, append(ids, "ghost-1", "ghost-2"))
	require.NoError(t, err)
	assert.Len(t, result.Deleted, 3)
	assert.Len(t, result.Failed, 2)
	assert.ErrorIs(t, result.Failed["ghost-1"], common.ErrNotFound)

	n, err := f.Count(ctx, owner, KindItem)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete_UnknownKind(t *testing.T) {
	f, _ := newTestFacade(defaultQuota())

	err := f.Delete(context.Background(), owner, Kind("gadgets"), "x")
	assert.ErrorIs(t, err, common.ErrInvalidEntry)
}
