package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/annavlsk/closetkeeper/internal/catalog"
)

func (a *App) listLookbooks(ctx context.Context, continueListing bool) error {
	cursor := ""
	if continueListing {
		cursor = a.cursors[catalog.KindLookbook]
		if cursor == "" {
			fmt.Println("Nothing more to show")
			return nil
		}
	}

	page, err := a.facade.ListLookbooks(ctx, a.owner(), cursor)
	if err != nil {
		return err
	}
	a.cursors[catalog.KindLookbook] = page.Cursor

	if len(page.Entries) == 0 {
		fmt.Println("No lookbooks yet. Add one with 'addlookbook'")
		return nil
	}
	for _, lb := range page.Entries {
		fmt.Printf("%s  %-20s %d outfits\n", lb.ID, lb.Name, len(lb.Outfits))
	}
	if page.Cursor != "" {
		fmt.Println("Type 'more lookbooks' to continue")
	}
	return nil
}

// showLookbook renders a lookbook from its embedded outfit summaries.
// Summaries survive deletion of the source outfit; ones whose outfit is
// gone are flagged but still shown.
func (a *App) showLookbook(ctx context.Context, id string) error {
	lb, err := a.facade.GetLookbook(ctx, a.owner(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Lookbook %s\n", lb.ID)
	fmt.Printf("  Name: %s\n", lb.Name)
	if lb.Description != "" {
		fmt.Printf("  Description: %s\n", lb.Description)
	}
	if lb.Theme != "" {
		fmt.Printf("  Theme: %s\n", lb.Theme)
	}
	fmt.Println("  Outfits:")
	for _, o := range lb.Outfits {
		note := ""
		if _, err := a.facade.GetOutfit(ctx, a.owner(), o.ID); err != nil {
			note = "  (no longer in your outfits)"
		}
		fmt.Printf("    %s  %-20s %d items%s\n", o.ID, o.Name, len(o.ItemIDs), note)
	}
	return nil
}

// addLookbook builds a lookbook from existing outfits. Only an outfit
// summary (id, name, item ids) is embedded, never the full outfit.
func (a *App) addLookbook(ctx context.Context) error {
	ok, err := a.checkQuota(ctx, catalog.KindLookbook)
	if err != nil || !ok {
		return err
	}

	lb := catalog.Lookbook{}
	if lb.Name, err = getSimpleText(a.reader, "Lookbook name", os.Stdout); err != nil {
		return err
	}
	if lb.Description, err = getSimpleText(a.reader, "Description (optional)", os.Stdout); err != nil {
		return err
	}
	prompt := "Theme (optional: Casual/Formal/Work/Party/Vacation/Sports/Seasonal/Special Occasion)"
	if lb.Theme, err = getSimpleText(a.reader, prompt, os.Stdout); err != nil {
		return err
	}

	outfitIDs, err := GetList(a.reader, "Outfit ids (space-separated)", os.Stdout)
	if err != nil {
		return err
	}

	var missing []string
	for _, id := range outfitIDs {
		outfit, err := a.facade.GetOutfit(ctx, a.owner(), id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		lb.Outfits = append(lb.Outfits, catalog.Summarize(*outfit))
	}
	if len(missing) > 0 {
		fmt.Printf("Unknown outfits: %s\n", strings.Join(missing, ", "))
		return nil
	}

	id, err := a.facade.CreateLookbook(ctx, a.owner(), lb)
	if err != nil {
		return err
	}

	fmt.Printf("Lookbook added: %s\n", id)
	return nil
}
