package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/docstore"
	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// deleteWorkers caps concurrent per-entry deletes in DeleteMany.
const deleteWorkers = 4

// QuotaChecker answers whether the owner may add one more entry of a kind.
type QuotaChecker interface {
	CanCreate(ctx context.Context, userID string, kind Kind, currentCount int64) (bool, error)
}

// Page is one page of entries, decoded into the kind's struct.
type Page[T any] struct {
	Entries []T
	Cursor  string
}

// BatchResult reports the outcome of a multi-entry delete: which ids were
// removed and which failed, each with its own error.
type BatchResult struct {
	Deleted []string
	Failed  map[string]error
}

// Facade is the single entry point for wardrobe collection access. Every
// operation takes the acting Principal explicitly: a nil Principal fails
// with common.ErrUnauthenticated before any store call, and all reads and
// writes are scoped to that Principal's own entries.
type Facade struct {
	store docstore.Store
	quota QuotaChecker
	log   logging.Logger
	limit int
}

func NewFacade(store docstore.Store, quota QuotaChecker, pageSize int, log logging.Logger) *Facade {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Facade{store: store, quota: quota, log: log, limit: pageSize}
}

func requireOwner(owner *identity.Principal) error {
	if owner == nil || owner.ID == "" {
		return common.ErrUnauthenticated
	}
	return nil
}

// create validates, checks quota, and stores one entry.
func create(ctx context.Context, f *Facade, owner *identity.Principal, kind Kind, entry any) (string, error) {
	if err := requireOwner(owner); err != nil {
		return "", err
	}
	if err := ValidateEntry(entry); err != nil {
		return "", err
	}

	count, err := f.store.Count(ctx, owner.ID, string(kind))
	if err != nil {
		return "", err
	}
	ok, err := f.quota.CanCreate(ctx, owner.ID, kind, count)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: free accounts hold up to %d %ss",
			common.ErrQuotaExceeded, FreeLimits[kind], kind.Singular())
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidEntry, err)
	}
	doc, err := f.store.Add(ctx, owner.ID, string(kind), data)
	if err != nil {
		return "", err
	}

	f.log.Debug(ctx, "entry created", "kind", kind, "id", doc.ID)
	return doc.ID, nil
}

func get[T any](ctx context.Context, f *Facade, owner *identity.Principal, kind Kind, id string) (*T, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	doc, err := f.store.Get(ctx, owner.ID, string(kind), id)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

func list[T any](ctx context.Context, f *Facade, owner *identity.Principal, kind Kind, cursor string) (*Page[T], error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	dp, err := f.store.List(ctx, docstore.Query{
		OwnerID: owner.ID,
		Kind:    string(kind),
		Limit:   f.limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, err
	}

	page := &Page[T]{Cursor: dp.Cursor}
	for i := range dp.Documents {
		e, err := decode[T](&dp.Documents[i])
		if err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, *e)
	}
	return page, nil
}

func update[T any](ctx context.Context, f *Facade, owner *identity.Principal, kind Kind, id string, patch json.RawMessage) (*T, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("%w: patch must be a JSON object", common.ErrInvalidEntry)
	}

	// Preview the merge against the current document and re-run the kind's
	// validation, so a patch cannot push the entry outside its field rules.
	current, err := f.store.Get(ctx, owner.ID, string(kind), id)
	if err != nil {
		return nil, err
	}
	merged, err := mergeJSON(current.Data, overlay)
	if err != nil {
		return nil, err
	}
	var preview T
	if err := json.Unmarshal(merged, &preview); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidEntry, err)
	}
	if err := ValidateEntry(preview); err != nil {
		return nil, err
	}

	doc, err := f.store.Merge(ctx, owner.ID, string(kind), id, patch)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

func mergeJSON(base json.RawMessage, overlay map[string]json.RawMessage) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, fmt.Errorf("stored entry unparseable: %w", err)
	}
	for k, v := range overlay {
		m[k] = v
	}
	return json.Marshal(m)
}

func decode[T any](doc *docstore.Document) (*T, error) {
	var e T
	if err := json.Unmarshal(doc.Data, &e); err != nil {
		return nil, fmt.Errorf("stored entry unparseable: %w", err)
	}
	if withID, ok := any(&e).(interface{ setID(string) }); ok {
		withID.setID(doc.ID)
	}
	return &e, nil
}

func (i *Item) setID(id string)     { i.ID = id }
func (o *Outfit) setID(id string)   { o.ID = id }
func (l *Lookbook) setID(id string) { l.ID = id }

func (f *Facade) CreateItem(ctx context.Context, owner *identity.Principal, item Item) (string, error) {
	return create(ctx, f, owner, KindItem, item)
}

func (f *Facade) CreateOutfit(ctx context.Context, owner *identity.Principal, outfit Outfit) (string, error) {
	return create(ctx, f, owner, KindOutfit, outfit)
}

func (f *Facade) CreateLookbook(ctx context.Context, owner *identity.Principal, lb Lookbook) (string, error) {
	return create(ctx, f, owner, KindLookbook, lb)
}

func (f *Facade) GetItem(ctx context.Context, owner *identity.Principal, id string) (*Item, error) {
	return get[Item](ctx, f, owner, KindItem, id)
}

func (f *Facade) GetOutfit(ctx context.Context, owner *identity.Principal, id string) (*Outfit, error) {
	return get[Outfit](ctx, f, owner, KindOutfit, id)
}

func (f *Facade) GetLookbook(ctx context.Context, owner *identity.Principal, id string) (*Lookbook, error) {
	return get[Lookbook](ctx, f, owner, KindLookbook, id)
}

func (f *Facade) ListItems(ctx context.Context, owner *identity.Principal, cursor string) (*Page[Item], error) {
	return list[Item](ctx, f, owner, KindItem, cursor)
}

func (f *Facade) ListOutfits(ctx context.Context, owner *identity.Principal, cursor string) (*Page[Outfit], error) {
	return list[Outfit](ctx, f, owner, KindOutfit, cursor)
}

func (f *Facade) ListLookbooks(ctx context.Context, owner *identity.Principal, cursor string) (*Page[Lookbook], error) {
	return list[Lookbook](ctx, f, owner, KindLookbook, cursor)
}

func (f *Facade) UpdateItem(ctx context.Context, owner *identity.Principal, id string, patch json.RawMessage) (*Item, error) {
	return update[Item](ctx, f, owner, KindItem, id, patch)
}

func (f *Facade) UpdateOutfit(ctx context.Context, owner *identity.Principal, id string, patch json.RawMessage) (*Outfit, error) {
	return update[Outfit](ctx, f, owner, KindOutfit, id, patch)
}

func (f *Facade) UpdateLookbook(ctx context.Context, owner *identity.Principal, id string, patch json.RawMessage) (*Lookbook, error) {
	return update[Lookbook](ctx, f, owner, KindLookbook, id, patch)
}

// Delete removes one entry of the given kind.
func (f *Facade) Delete(ctx context.Context, owner *identity.Principal, kind Kind, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown entry kind %q", common.ErrInvalidEntry, kind)
	}
	return f.store.Delete(ctx, owner.ID, string(kind), id)
}

// DeleteMany removes a set of entries concurrently. Failures do not stop
// the batch; the result records each id's outcome so callers can report
// "N of M deleted".
func (f *Facade) DeleteMany(ctx context.Context, owner *identity.Principal, kind Kind, ids []string) (*BatchResult, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown entry kind %q", common.ErrInvalidEntry, kind)
	}

	result := &BatchResult{Failed: map[string]error{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteWorkers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := f.store.Delete(ctx, owner.ID, string(kind), id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
				return nil
			}
			result.Deleted = append(result.Deleted, id)
			return nil
		})
	}
	// workers never return errors; Wait only observes ctx cancellation
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Failed) > 0 {
		f.log.Warn(ctx, "batch delete partially failed",
			"kind", kind, "deleted", len(result.Deleted), "failed", len(result.Failed))
	}
	return result, nil
}

// Count returns how many entries of the kind the owner holds.
func (f *Facade) Count(ctx context.Context, owner *identity.Principal, kind Kind) (int64, error) {
	if err := requireOwner(owner); err != nil {
		return 0, err
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: unknown entry kind %q", common.ErrInvalidEntry, kind)
	}
	return f.store.Count(ctx, owner.ID, string(kind))
}
