// Package identity models the signed-in user: the Principal snapshot, the
// provider contract for sign-in/sign-up/sign-out transitions, and a durable
// local cache that lets the UI render before the provider round-trip resolves.
package identity

import "time"

// Principal is a minimal snapshot of the signed-in user. The authoritative
// copy lives in the identity provider; the cached copy is only a hint for
// optimistic rendering.
type Principal struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Partial carries optional Principal fields for shallow merges into the
// cached snapshot. Nil fields are left untouched.
type Partial struct {
	Email       *string
	DisplayName *string
	PhotoURL    *string
	LastLoginAt *time.Time
}
