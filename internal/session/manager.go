// Package session coordinates the identity provider and the local identity
// cache: the cache is read once at startup to paint an optimistic state, and
// is written only after the provider confirms a transition.
package session

import (
	"context"
	"sync"

	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
)

// Provider is the identity provider as seen by the session manager: the
// transition operations plus a way to read the provider's resolved state
// and the session token backing it.
type Provider interface {
	identity.Provider
	Current() *identity.Principal
	AccessToken() string
}

// Manager tracks the signed-in Principal across provider transitions.
type Manager struct {
	cache    *identity.Cache
	provider Provider
	log      logging.Logger

	mu          sync.Mutex
	current     *identity.Principal
	unsubscribe func()
}

func NewManager(cache *identity.Cache, provider Provider, log logging.Logger) *Manager {
	return &Manager{cache: cache, provider: provider, log: log}
}

// Start loads the cached Principal for optimistic rendering, subscribes to
// provider transitions, and reconciles with the provider's resolved state.
// If the cache and the provider disagree, the provider wins and the cache
// is cleared. The returned Principal is the reconciled state.
func (m *Manager) Start(ctx context.Context) (*identity.Principal, error) {
	cached, err := m.cache.Load(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = cached
	m.mu.Unlock()

	m.unsubscribe = m.provider.OnStateChange(m.onTransition)

	resolved := m.provider.Current()
	if resolved == nil {
		if cached != nil {
			m.log.Info(ctx, "cached session not confirmed by provider, clearing")
			if err := m.cache.Clear(ctx); err != nil {
				return nil, err
			}
		}
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		return nil, nil
	}

	if err := m.cache.Save(ctx, resolved); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = resolved
	m.mu.Unlock()
	return resolved, nil
}

// Stop unsubscribes from provider transitions.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Current returns the manager's view of the signed-in Principal, or nil.
func (m *Manager) Current() *identity.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// AccessToken returns the provider's session token, or "" if signed out.
func (m *Manager) AccessToken() string {
	return m.provider.AccessToken()
}

func (m *Manager) SignIn(ctx context.Context, email string, password []byte) (*identity.Principal, error) {
	return m.provider.SignInWithPassword(ctx, email, password)
}

func (m *Manager) SignUp(ctx context.Context, email string, password []byte) (*identity.Principal, error) {
	return m.provider.SignUpWithPassword(ctx, email, password)
}

func (m *Manager) SignInFederated(ctx context.Context, token string) (*identity.Principal, error) {
	return m.provider.SignInWithFederatedToken(ctx, token)
}

func (m *Manager) SignOut(ctx context.Context) error {
	return m.provider.SignOut(ctx)
}

func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	return m.provider.SendPasswordReset(ctx, email)
}

// onTransition mirrors confirmed provider transitions into the cache.
// The provider invokes handlers synchronously, so cache writes stay ordered
// with the callback sequence.
func (m *Manager) onTransition(p *identity.Principal) {
	ctx := context.Background()

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	if p == nil {
		if err := m.cache.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear identity cache", "error", err)
		}
		return
	}
	if err := m.cache.Save(ctx, p); err != nil {
		m.log.Error(ctx, "failed to save identity cache", "error", err)
	}
}
