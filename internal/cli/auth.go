package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/annavlsk/closetkeeper/internal/auth"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/identity"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates a new account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.session.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s!\n", displayName(p))
	return nil
}

// Login prompts for credentials and signs the user in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.session.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", displayName(p))
	return nil
}

// LoginFederated accepts an identity token issued by an external provider
// and signs in with it, creating the account on first use.
func (a *App) LoginFederated(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste identity token", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.session.SignInFederated(ctx, token)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s!\n", displayName(p))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// ResetPassword requests a password-reset token for an email. The outcome
// message is the same whether or not the account exists.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.ResetPassword(ctx, email); err != nil {
		return err
	}

	fmt.Println("If this email has an account, a reset link is on its way")
	return nil
}

// status prints the signed-in user, their entitlement, and whether the
// session token still verifies.
func (a *App) status(ctx context.Context) error {
	p := a.owner()
	if p == nil {
		fmt.Println("Not logged in")
		return nil
	}

	premium, err := a.evaluator.IsPremium(ctx, p.ID)
	if err != nil {
		return err
	}

	tier := "free"
	if premium {
		tier = "premium"
	}
	fmt.Printf("%s <%s>, %s tier\n", displayName(p), p.Email, tier)
	fmt.Printf("Session: %s\n", a.sessionState(p, a.session.AccessToken()))
	return nil
}

// sessionState verifies the access token against the signed-in Principal.
// An expired token means the next server call will fail, which is worth
// surfacing before the user hits it.
func (a *App) sessionState(p *identity.Principal, token string) string {
	if token == "" {
		return "no token"
	}
	userID, err := auth.GetUserIDFromToken(token, []byte(a.config.SecretKey))
	if err != nil {
		return "token expired, log in again"
	}
	if userID != p.ID {
		return "token does not match this account"
	}
	return "token valid"
}
