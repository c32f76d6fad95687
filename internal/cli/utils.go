package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/annavlsk/closetkeeper/internal/catalog"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/entitlement"
)

// friendlyMessage maps sentinel errors onto user-facing wording.
func friendlyMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return "Please log in first"
	case errors.Is(err, common.ErrUnauthorized):
		return "Wrong email or password"
	case errors.Is(err, common.ErrEmailTaken):
		return "An account with this email already exists"
	case errors.Is(err, common.ErrInvalidToken):
		return "The identity token is invalid or expired"
	case errors.Is(err, common.ErrNotFound):
		return "Entry not found"
	case errors.Is(err, common.ErrQuotaExceeded):
		return fmt.Sprintf("%s Upgrade to premium for unlimited entries.", err.Error())
	case errors.Is(err, common.ErrInvalidEntry):
		return fmt.Sprintf("Invalid entry: %s", err.Error())
	case errors.Is(err, common.ErrImageRead):
		return "Could not read the image file"
	case errors.Is(err, common.ErrUpload):
		return "Image upload failed, try again later"
	}
	return err.Error()
}

// checkQuota reports whether one more entry of the kind fits, printing an
// upsell when the free-tier cap is reached. The facade re-checks on create;
// this is only an early, friendlier prompt.
func (a *App) checkQuota(ctx context.Context, kind catalog.Kind) (bool, error) {
	owner := a.owner()
	if owner == nil {
		return false, common.ErrUnauthenticated
	}

	count, err := a.facade.Count(ctx, owner, kind)
	if err != nil {
		return false, err
	}
	ok, err := a.evaluator.CanCreate(ctx, owner.ID, kind, count)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Printf("You have reached the free limit of %d %ss. Upgrade to premium for unlimited entries.\n",
			entitlement.Limit(kind), kind.Singular())
	}
	return ok, nil
}
