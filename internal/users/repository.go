package users

import (
	"context"
	"time"
)

// Repository defines account persistence operations used by the identity
// provider.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	TouchLastLogin(ctx context.Context, id string) (time.Time, error)
	SetPasswordReset(ctx context.Context, email string, tokenHash []byte, expires time.Time) error
}
