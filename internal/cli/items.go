package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/annavlsk/closetkeeper/internal/catalog"
)

func (a *App) listItems(ctx context.Context, continueListing bool) error {
	cursor := ""
	if continueListing {
		cursor = a.cursors[catalog.KindItem]
		if cursor == "" {
			fmt.Println("Nothing more to show")
			return nil
		}
	}

	page, err := a.facade.ListItems(ctx, a.owner(), cursor)
	if err != nil {
		return err
	}
	a.cursors[catalog.KindItem] = page.Cursor

	if len(page.Entries) == 0 {
		fmt.Println("No items yet. Add one with 'additem'")
		return nil
	}
	for _, item := range page.Entries {
		line := fmt.Sprintf("%s  %-20s %-12s", item.ID, item.Name, item.Category)
		if item.Color != "" {
			line += "  " + item.Color
		}
		fmt.Println(line)
	}
	if page.Cursor != "" {
		fmt.Println("Type 'more items' to continue")
	}
	return nil
}

func (a *App) addItem(ctx context.Context) error {
	ok, err := a.checkQuota(ctx, catalog.KindItem)
	if err != nil || !ok {
		return err
	}

	item := catalog.Item{}
	if item.Name, err = getSimpleText(a.reader, "Item name", os.Stdout); err != nil {
		return err
	}
	if item.Description, err = getSimpleText(a.reader, "Description (optional)", os.Stdout); err != nil {
		return err
	}
	prompt := "Category (Tops/Bottoms/Dresses/Outerwear/Shoes/Accessories/Other)"
	if item.Category, err = getSimpleText(a.reader, prompt, os.Stdout); err != nil {
		return err
	}
	if item.SubCategory, err = getSimpleText(a.reader, "Subcategory (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Brand, err = getSimpleText(a.reader, "Brand (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Size, err = getSimpleText(a.reader, "Size (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Material, err = getSimpleText(a.reader, "Material (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Color, err = getSimpleText(a.reader, "Color (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Price, err = getSimpleText(a.reader, "Price (optional)", os.Stdout); err != nil {
		return err
	}
	if item.Note, err = getSimpleText(a.reader, "Note (optional)", os.Stdout); err != nil {
		return err
	}

	imagePath, err := getSimpleText(a.reader, "Image file path (optional)", os.Stdout)
	if err != nil {
		return err
	}
	if imagePath != "" {
		url, err := a.ingestor.Ingest(ctx, a.owner(), catalog.KindItem, imagePath)
		if err != nil {
			return err
		}
		item.ImageURL = url
	}

	id, err := a.facade.CreateItem(ctx, a.owner(), item)
	if err != nil {
		return err
	}

	fmt.Printf("Item added: %s\n", id)
	return nil
}

func (a *App) showItem(ctx context.Context, id string) error {
	item, err := a.facade.GetItem(ctx, a.owner(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Item %s\n", item.ID)
	fmt.Printf("  Name:     %s\n", item.Name)
	printField("Description", item.Description)
	fmt.Printf("  Category: %s\n", item.Category)
	printField("Subcategory", item.SubCategory)
	if len(item.Seasons) > 0 {
		fmt.Printf("  Seasons:  %s\n", strings.Join(item.Seasons, ", "))
	}
	printField("Brand", item.Brand)
	printField("Size", item.Size)
	printField("Material", item.Material)
	printField("Color", item.Color)
	printField("Price", item.Price)
	printField("Note", item.Note)
	printField("Image", item.ImageURL)
	return nil
}

func printField(label, value string) {
	if value != "" {
		fmt.Printf("  %s: %s\n", label, value)
	}
}

func (a *App) editItem(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: edititem <id>")
		return nil
	}

	patchText, err := getSimpleText(a.reader,
		`Fields to change, as JSON (e.g. {"color":"Black"})`, os.Stdout)
	if err != nil {
		return err
	}

	item, err := a.facade.UpdateItem(ctx, a.owner(), args[0], json.RawMessage(patchText))
	if err != nil {
		return err
	}

	fmt.Printf("Updated: %s (%s)\n", item.Name, item.Category)
	return nil
}

// deleteEntries removes the given ids of one kind and reports "N of M
// deleted". Failures of individual ids do not abort the batch.
func (a *App) deleteEntries(ctx context.Context, kind catalog.Kind, ids []string) error {
	if len(ids) == 0 {
		fmt.Printf("Usage: del%s <id> [id...]\n", kind)
		return nil
	}

	result, err := a.facade.DeleteMany(ctx, a.owner(), kind, ids)
	if err != nil {
		return err
	}

	fmt.Printf("%d of %d deleted\n", len(result.Deleted), len(ids))
	for id, ferr := range result.Failed {
		fmt.Printf("  %s: %s\n", id, friendlyMessage(ferr))
	}
	return nil
}
