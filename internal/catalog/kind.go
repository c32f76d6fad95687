// Package catalog exposes the wardrobe collections (items, outfits,
// lookbooks) behind a single owner-scoped facade.
package catalog

// Kind names one of the three wardrobe collections. The value doubles as
// the collection name in the document store.
type Kind string

const (
	KindItem     Kind = "items"
	KindOutfit   Kind = "outfits"
	KindLookbook Kind = "lookbooks"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{KindItem, KindOutfit, KindLookbook}

// FreeLimits caps how many entries of each kind a free account may hold.
// The facade and the entitlement evaluator both read this table.
var FreeLimits = map[Kind]int64{
	KindItem:     20,
	KindOutfit:   10,
	KindLookbook: 3,
}

func (k Kind) Valid() bool {
	switch k {
	case KindItem, KindOutfit, KindLookbook:
		return true
	}
	return false
}

// Singular returns the kind's singular noun for user-facing messages.
func (k Kind) Singular() string {
	switch k {
	case KindItem:
		return "item"
	case KindOutfit:
		return "outfit"
	case KindLookbook:
		return "lookbook"
	}
	return string(k)
}
