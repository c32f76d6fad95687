// Package users provides the account model and its PostgreSQL repository.
package users

import "time"

// User is an identity-provider account row. The is_premium/premium_expiry
// pair is the server-held EntitlementRecord; it is created alongside the
// account (false/NULL) and mutated only by an external billing process.
type User struct {
	ID            string
	Email         string
	PasswordHash  []byte
	DisplayName   string
	PhotoURL      string
	IsPremium     bool
	PremiumExpiry *time.Time
	LastLoginAt   time.Time
	CreatedAt     time.Time
}
