package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/annavlsk/closetkeeper/internal/catalog"
)

func (a *App) listOutfits(ctx context.Context, continueListing bool) error {
	cursor := ""
	if continueListing {
		cursor = a.cursors[catalog.KindOutfit]
		if cursor == "" {
			fmt.Println("Nothing more to show")
			return nil
		}
	}

	page, err := a.facade.ListOutfits(ctx, a.owner(), cursor)
	if err != nil {
		return err
	}
	a.cursors[catalog.KindOutfit] = page.Cursor

	if len(page.Entries) == 0 {
		fmt.Println("No outfits yet. Add one with 'addoutfit'")
		return nil
	}
	for _, o := range page.Entries {
		fmt.Printf("%s  %-20s %d items\n", o.ID, o.Name, len(o.ItemIDs))
	}
	if page.Cursor != "" {
		fmt.Println("Type 'more outfits' to continue")
	}
	return nil
}

// showOutfit renders one outfit with its item names resolved. Item ids
// are weak references: a member deleted since the outfit was saved is
// shown as missing rather than failing the whole command.
func (a *App) showOutfit(ctx context.Context, id string) error {
	outfit, err := a.facade.GetOutfit(ctx, a.owner(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Outfit %s\n", outfit.ID)
	fmt.Printf("  Name: %s\n", outfit.Name)
	if outfit.Description != "" {
		fmt.Printf("  Description: %s\n", outfit.Description)
	}
	fmt.Println("  Items:")
	for _, itemID := range outfit.ItemIDs {
		item, err := a.facade.GetItem(ctx, a.owner(), itemID)
		if err != nil {
			fmt.Printf("    %s  (missing)\n", itemID)
			continue
		}
		fmt.Printf("    %s  %s\n", itemID, item.Name)
	}
	return nil
}

func (a *App) addOutfit(ctx context.Context) error {
	ok, err := a.checkQuota(ctx, catalog.KindOutfit)
	if err != nil || !ok {
		return err
	}

	outfit := catalog.Outfit{}
	if outfit.Name, err = getSimpleText(a.reader, "Outfit name", os.Stdout); err != nil {
		return err
	}
	if outfit.Description, err = getSimpleText(a.reader, "Description (optional)", os.Stdout); err != nil {
		return err
	}
	if outfit.ItemIDs, err = GetList(a.reader, "Item ids (at least two, space-separated)", os.Stdout); err != nil {
		return err
	}

	// confirm the referenced items exist and belong to the user
	var missing []string
	for _, id := range outfit.ItemIDs {
		if _, err := a.facade.GetItem(ctx, a.owner(), id); err != nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fmt.Printf("Unknown items: %s\n", strings.Join(missing, ", "))
		return nil
	}

	id, err := a.facade.CreateOutfit(ctx, a.owner(), outfit)
	if err != nil {
		return err
	}

	fmt.Printf("Outfit added: %s\n", id)
	return nil
}
