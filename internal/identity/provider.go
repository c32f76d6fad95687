package identity

import "context"

// StateHandler receives the new Principal on every auth state transition,
// or nil when the user signed out.
type StateHandler func(p *Principal)

// Provider is the identity-provider contract the rest of the app depends on.
//
// Contract:
//   - SignInWithPassword / SignUpWithPassword: authenticate or create an
//     account and return the resulting Principal.
//   - SignInWithFederatedToken: authenticate with an externally issued
//     identity token, creating the account on first sign-in.
//   - SignOut: end the current session.
//   - OnStateChange: subscribe to transitions; the returned function
//     unsubscribes. Handlers are invoked only after the provider has
//     confirmed a transition, never speculatively.
//   - SendPasswordReset: issue a single-use password-reset token.
//
// All methods must honor context cancellation/timeouts.
type Provider interface {
	SignInWithPassword(ctx context.Context, email string, password []byte) (*Principal, error)
	SignUpWithPassword(ctx context.Context, email string, password []byte) (*Principal, error)
	SignInWithFederatedToken(ctx context.Context, token string) (*Principal, error)
	SignOut(ctx context.Context) error
	OnStateChange(h StateHandler) (unsubscribe func())
	SendPasswordReset(ctx context.Context, email string) error
}
