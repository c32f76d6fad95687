// Package common defines shared constants and sentinel errors used across
// the ClosetKeeper client layers. Callers should use errors.Is to match
// these values; raw collaborator errors never cross a component boundary.
package common

import "errors"

var (
	// Scoped operations attempted with no resolvable principal.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Repository / store-level errors.
	ErrNotFound = errors.New("not found")

	// Credential or token verification failures.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrEmailTaken   = errors.New("email already registered")

	// Entitlement gate refusals (advisory, surfaced as an upsell prompt).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Catalog entry failed per-kind field validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// Media ingestion failures.
	ErrImageRead = errors.New("failed to read image")
	ErrUpload    = errors.New("upload failed")

	// Background-removal collaborator failure. Recovered locally via
	// fallback, never surfaced as an ingestion failure.
	ErrServiceUnavailable = errors.New("service unavailable")

	// Catch-all for unexpected collaborator errors; the original message
	// is kept in the wrap chain for diagnostics only.
	ErrOperationFailed = errors.New("operation failed")
)
