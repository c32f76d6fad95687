package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/annavlsk/closetkeeper/internal/catalog"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/dbx"
	"github.com/annavlsk/closetkeeper/internal/logging"
)

// RecordSource fetches the current entitlement pair for an account.
type RecordSource interface {
	EntitlementRecord(ctx context.Context, userID string) (Record, error)
}

// Evaluator answers premium and quota questions. Every check re-fetches the
// record from its source so a premium flip takes effect on the next call
// without a new sign-in.
type Evaluator struct {
	source RecordSource
	log    logging.Logger
	now    func() time.Time
}

func NewEvaluator(source RecordSource, log logging.Logger) *Evaluator {
	return &Evaluator{source: source, log: log, now: time.Now}
}

// IsPremium reports whether the account currently holds effective premium.
func (e *Evaluator) IsPremium(ctx context.Context, userID string) (bool, error) {
	r, err := e.source.EntitlementRecord(ctx, userID)
	if err != nil {
		return false, err
	}
	return EffectiveStatus(r, e.now()), nil
}

// CanCreate reports whether the account may add one more entry of the given
// kind, given how many it currently holds. Premium accounts are unlimited.
// The count is read before the write, so two concurrent creates can both
// pass the check at the boundary.
func (e *Evaluator) CanCreate(ctx context.Context, userID string, kind catalog.Kind, currentCount int64) (bool, error) {
	premium, err := e.IsPremium(ctx, userID)
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}

	limit, ok := catalog.FreeLimits[kind]
	if !ok {
		return false, fmt.Errorf("%w: unknown entry kind %q", common.ErrOperationFailed, kind)
	}
	return currentCount < limit, nil
}

// Limit returns the free-tier cap for the kind, or 0 if the kind is unknown.
func Limit(kind catalog.Kind) int64 {
	return catalog.FreeLimits[kind]
}

// PostgresRecordSource reads the entitlement pair straight from the users
// table.
type PostgresRecordSource struct {
	db dbx.DBTX
}

func NewPostgresRecordSource(db dbx.DBTX) *PostgresRecordSource {
	return &PostgresRecordSource{db: db}
}

func (s *PostgresRecordSource) EntitlementRecord(ctx context.Context, userID string) (Record, error) {
	query :=
		`SELECT is_premium, premium_expiry
		 FROM users
		 WHERE id = $1
		 `

	var r Record
	var expiry sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&r.IsPremium, &expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, common.ErrNotFound
		}
		return Record{}, fmt.Errorf("db error: %w", err)
	}
	if expiry.Valid {
		t := expiry.Time
		r.PremiumExpiry = &t
	}
	return r, nil
}
