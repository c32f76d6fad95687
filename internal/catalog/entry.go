package catalog

import (
	"fmt"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// Item is a single wardrobe piece.
type Item struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	Category    string   `json:"category" validate:"required,oneof=Tops Bottoms Dresses Outerwear Shoes Accessories Other"`
	SubCategory string   `json:"subCategory,omitempty" validate:"max=100"`
	Seasons     []string `json:"seasons,omitempty" validate:"dive,oneof=Spring Summer Fall Winter 'All Seasons'"`
	Brand       string   `json:"brand,omitempty" validate:"max=100"`
	Size        string   `json:"size,omitempty" validate:"max=30"`
	Material    string   `json:"material,omitempty" validate:"max=100"`
	Color       string   `json:"color,omitempty" validate:"max=50"`
	Price       string   `json:"price,omitempty" validate:"max=30"`
	Note        string   `json:"note,omitempty" validate:"max=500"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// Outfit combines at least two items.
type Outfit struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	ItemIDs     []string `json:"items" validate:"required,min=2,dive,required"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// OutfitSummary is the sanitized form of an outfit embedded in a lookbook:
// only the identifying fields, never the full outfit document.
type OutfitSummary struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	ItemIDs []string `json:"items"`
}

// Lookbook is a curated, optionally themed set of outfits.
type Lookbook struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	Theme       string          `json:"theme,omitempty" validate:"omitempty,oneof=Casual Formal Work Party Vacation Sports Seasonal 'Special Occasion'"`
	Outfits     []OutfitSummary `json:"outfits" validate:"required,min=1,dive"`
}

// Summarize strips an outfit down to the fields a lookbook carries.
func Summarize(o Outfit) OutfitSummary {
	return OutfitSummary{ID: o.ID, Name: o.Name, ItemIDs: o.ItemIDs}
}

var validate = validator.New()

// ValidateEntry checks an entry's structural rules before it reaches the
// store. Violations wrap common.ErrInvalidEntry.
func ValidateEntry(entry any) error {
	if err := validate.Struct(entry); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidEntry, err)
	}
	return nil
}
