package identity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annavlsk/closetkeeper/internal/auth"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"github.com/annavlsk/closetkeeper/internal/users"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenValidity = 1 * time.Hour

// PostgresProvider is a Provider backed by the users table. Sessions are
// represented by short-lived HS256 tokens; state-change handlers fire only
// after the underlying row operation confirmed the transition.
type PostgresProvider struct {
	repo            users.Repository
	secret          []byte
	federatedSecret []byte
	tokenValidity   time.Duration
	log             logging.Logger

	mu       sync.Mutex
	handlers map[int]StateHandler
	nextID   int
	current  *Principal
	token    string
}

func NewPostgresProvider(repo users.Repository, secret, federatedSecret []byte,
	tokenValidity time.Duration, log logging.Logger) *PostgresProvider {
	return &PostgresProvider{
		repo:            repo,
		secret:          secret,
		federatedSecret: federatedSecret,
		tokenValidity:   tokenValidity,
		log:             log,
		handlers:        map[int]StateHandler{},
	}
}

var _ Provider = (*PostgresProvider)(nil)

func (p *PostgresProvider) SignInWithPassword(ctx context.Context, email string, password []byte) (*Principal, error) {
	u, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	if len(u.PasswordHash) == 0 ||
		bcrypt.CompareHashAndPassword(u.PasswordHash, password) != nil {
		return nil, common.ErrUnauthorized
	}

	return p.establishSession(ctx, u)
}

func (p *PostgresProvider) SignUpWithPassword(ctx context.Context, email string, password []byte) (*Principal, error) {
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	u, err := p.repo.Create(ctx, &users.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	return p.establishSession(ctx, u)
}

// SignInWithFederatedToken verifies an externally issued identity token and
// signs the user in, creating the account on first federated sign-in.
func (p *PostgresProvider) SignInWithFederatedToken(ctx context.Context, token string) (*Principal, error) {
	claims, err := auth.VerifyFederatedToken(token, p.federatedSecret)
	if err != nil {
		return nil, err
	}

	u, err := p.repo.GetByEmail(ctx, claims.Email)
	if errors.Is(err, common.ErrNotFound) {
		u, err = p.repo.Create(ctx, &users.User{
			Email:       claims.Email,
			DisplayName: claims.Name,
			PhotoURL:    claims.Picture,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	return p.establishSession(ctx, u)
}

// SignOut ends the current session and notifies subscribers with nil.
// Signing out with no active session succeeds silently.
func (p *PostgresProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	hadSession := p.current != nil
	p.current = nil
	p.token = ""
	p.mu.Unlock()

	if hadSession {
		p.notify(nil)
	}
	return nil
}

func (p *PostgresProvider) OnStateChange(h StateHandler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.handlers[id] = h

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

// SendPasswordReset stores a hashed single-use reset token for the account.
// An unknown email succeeds silently so callers cannot probe for accounts.
func (p *PostgresProvider) SendPasswordReset(ctx context.Context, email string) error {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}
	hash := sha256.Sum256([]byte(token))

	err = p.repo.SetPasswordReset(ctx, email, hash[:], time.Now().Add(resetTokenValidity))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			p.log.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	// Delivery is out of scope; the token would be handed to a mailer here.
	p.log.Info(ctx, "password reset token issued", "email", email)
	return nil
}

// AccessToken returns the current session token, or "" if signed out.
func (p *PostgresProvider) AccessToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// Current returns the provider's view of the signed-in Principal, or nil.
func (p *PostgresProvider) Current() *Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *PostgresProvider) establishSession(ctx context.Context, u *users.User) (*Principal, error) {
	lastLogin, err := p.repo.TouchLastLogin(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	token, err := auth.GenerateToken(u.ID, p.secret, p.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
	}

	principal := &Principal{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		LastLoginAt: lastLogin,
	}

	p.mu.Lock()
	p.current = principal
	p.token = token
	p.mu.Unlock()

	p.notify(principal)
	return principal, nil
}

func (p *PostgresProvider) notify(principal *Principal) {
	p.mu.Lock()
	hs := make([]StateHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		hs = append(hs, h)
	}
	p.mu.Unlock()

	for _, h := range hs {
		h(principal)
	}
}
