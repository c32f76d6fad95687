package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. The entitlement pair starts as false/NULL
// via column defaults. A duplicate email yields common.ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (email, password_hash, display_name, photo_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, last_login_at, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.DisplayName, user.PhotoURL).
		Scan(&user.ID, &user.LastLoginAt, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, email, password_hash, display_name, photo_url,
		        is_premium, premium_expiry, last_login_at, created_at
		 FROM users
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query :=
		`SELECT id, email, password_hash, display_name, photo_url,
		        is_premium, premium_expiry, last_login_at, created_at
		 FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// TouchLastLogin stamps last_login_at with the server clock and returns the
// stored timestamp.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) (time.Time, error) {
	query :=
		`UPDATE users SET last_login_at = now()
		 WHERE id = $1
		 RETURNING last_login_at
		 `

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return ts, nil
}

// SetPasswordReset stores a single-use reset token hash with its expiry.
func (r *PostgresRepository) SetPasswordReset(ctx context.Context, email string, tokenHash []byte, expires time.Time) error {
	query :=
		`UPDATE users SET reset_token_hash = $2, reset_expires = $3
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, email, tokenHash, expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*User, error) {
	user := &User{}
	var displayName, photoURL sql.NullString
	var premiumExpiry sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &displayName, &photoURL,
		&user.IsPremium, &premiumExpiry, &user.LastLoginAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.DisplayName = displayName.String
	user.PhotoURL = photoURL.String
	if premiumExpiry.Valid {
		t := premiumExpiry.Time
		user.PremiumExpiry = &t
	}

	return user, nil
}
