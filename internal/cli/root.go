package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/annavlsk/closetkeeper/internal/catalog"
)

func (a *App) getStatus() string {
	if p := a.owner(); p != nil {
		return fmt.Sprintf("(%s)", displayName(p))
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to ClosetKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("ck %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: items, additem, edititem, delitems, outfits, addoutfit, deloutfits,")
				fmt.Println("  lookbooks, addlookbook, dellookbooks, show <kind> <id>, more <kind>, status, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, loginfed, resetpw, exit")
			}
		case "register":
			a.report(a.Register(ctx))
		case "login":
			a.report(a.Login(ctx))
		case "loginfed":
			a.report(a.LoginFederated(ctx))
		case "resetpw":
			a.report(a.ResetPassword(ctx))
		case "logout":
			a.report(a.Logout(ctx))
		case "status":
			a.report(a.status(ctx))
		case "items":
			a.report(a.listItems(ctx, false))
		case "additem":
			a.report(a.addItem(ctx))
		case "edititem":
			a.report(a.editItem(ctx, args))
		case "delitems":
			a.report(a.deleteEntries(ctx, catalog.KindItem, args))
		case "outfits":
			a.report(a.listOutfits(ctx, false))
		case "addoutfit":
			a.report(a.addOutfit(ctx))
		case "deloutfits":
			a.report(a.deleteEntries(ctx, catalog.KindOutfit, args))
		case "lookbooks":
			a.report(a.listLookbooks(ctx, false))
		case "addlookbook":
			a.report(a.addLookbook(ctx))
		case "dellookbooks":
			a.report(a.deleteEntries(ctx, catalog.KindLookbook, args))
		case "show":
			a.report(a.show(ctx, args))
		case "more":
			a.report(a.more(ctx, args))
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}

// report prints command errors in user terms; handlers return raw errors.
func (a *App) report(err error) {
	if err != nil {
		log.Printf("%s", friendlyMessage(err))
	}
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("Usage: show <items|outfits|lookbooks> <id>")
		return nil
	}
	switch catalog.Kind(args[0]) {
	case catalog.KindItem:
		return a.showItem(ctx, args[1])
	case catalog.KindOutfit:
		return a.showOutfit(ctx, args[1])
	case catalog.KindLookbook:
		return a.showLookbook(ctx, args[1])
	}
	fmt.Printf("Unknown kind: %s\n", args[0])
	return nil
}

func (a *App) more(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: more <items|outfits|lookbooks>")
		return nil
	}
	switch catalog.Kind(args[0]) {
	case catalog.KindItem:
		return a.listItems(ctx, true)
	case catalog.KindOutfit:
		return a.listOutfits(ctx, true)
	case catalog.KindLookbook:
		return a.listLookbooks(ctx, true)
	}
	fmt.Printf("Unknown kind: %s\n", args[0])
	return nil
}
