package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/logging"
)

// principalKey is the single fixed key the cached Principal lives under.
const principalKey = "auth_principal"

// Cache persists the Principal snapshot as a JSON value in the local
// key-value table. At most one Principal is stored at a time; its presence
// is the signal the app uses to decide "is someone logged in" before the
// provider's own async check resolves.
type Cache struct {
	db  *sql.DB
	log logging.Logger
}

func NewCache(db *sql.DB, log logging.Logger) *Cache {
	return &Cache{db: db, log: log}
}

// Save serializes p and overwrites any prior value under the fixed key.
func (c *Cache) Save(ctx context.Context, p *Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, principalKey, data)
	if err != nil {
		return fmt.Errorf("save principal: %w", err)
	}
	return nil
}

// Load returns the previously saved Principal, or nil if none exists.
// A corrupt or unparseable stored value is treated as "no session",
// not an error.
func (c *Cache) Load(ctx context.Context) (*Principal, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, principalKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}

	var p Principal
	if err := json.Unmarshal(value, &p); err != nil {
		c.log.Warn(ctx, "cached principal unparseable, treating as no session", "error", err)
		return nil, nil
	}
	return &p, nil
}

// Clear removes the stored Principal. Clearing when nothing is stored
// succeeds silently.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM metadata WHERE key = ?`, principalKey); err != nil {
		return fmt.Errorf("clear principal: %w", err)
	}
	return nil
}

// Merge shallow-merges the given fields over the stored Principal and
// re-saves it. If nothing is stored, Merge is a no-op returning
// common.ErrNotFound.
func (c *Cache) Merge(ctx context.Context, partial Partial) error {
	p, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return common.ErrNotFound
	}

	if partial.Email != nil {
		p.Email = *partial.Email
	}
	if partial.DisplayName != nil {
		p.DisplayName = *partial.DisplayName
	}
	if partial.PhotoURL != nil {
		p.PhotoURL = *partial.PhotoURL
	}
	if partial.LastLoginAt != nil {
		p.LastLoginAt = *partial.LastLoginAt
	}

	return c.Save(ctx, p)
}
