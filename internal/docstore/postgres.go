package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/dbx"
)

const defaultPageSize = 50

// PostgresStore keeps documents in a JSONB table. Per-collection counts live
// in a side table and are adjusted in the same transaction as the insert or
// delete, so a crash between the two cannot leave them out of step.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Add(ctx context.Context, ownerID, kind string, data json.RawMessage) (*Document, error) {
	doc := &Document{OwnerID: ownerID, Kind: kind, Data: data}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		insert :=
			`INSERT INTO catalog_entries (owner_id, kind, doc)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at, updated_at
			 `
		err := tx.QueryRowContext(ctx, insert, ownerID, kind, []byte(data)).
			Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return bumpCount(ctx, tx, ownerID, kind, 1)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) Get(ctx context.Context, ownerID, kind, id string) (*Document, error) {
	query :=
		`SELECT id, owner_id, kind, doc, created_at, updated_at
		 FROM catalog_entries
		 WHERE owner_id = $1 AND kind = $2 AND id = $3
		 `

	return scanDoc(s.db.QueryRowContext(ctx, query, ownerID, kind, id))
}

func (s *PostgresStore) List(ctx context.Context, q Query) (*Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var rows *sql.Rows
	var err error
	if q.Cursor == "" {
		query :=
			`SELECT id, owner_id, kind, doc, created_at, updated_at
			 FROM catalog_entries
			 WHERE owner_id = $1 AND kind = $2
			 ORDER BY created_at DESC, id ASC
			 LIMIT $3
			 `
		rows, err = s.db.QueryContext(ctx, query, q.OwnerID, q.Kind, limit+1)
	} else {
		c, derr := decodeCursor(q.Cursor)
		if derr != nil {
			return nil, derr
		}
		query :=
			`SELECT id, owner_id, kind, doc, created_at, updated_at
			 FROM catalog_entries
			 WHERE owner_id = $1 AND kind = $2
			   AND (created_at < $3 OR (created_at = $3 AND id > $4))
			 ORDER BY created_at DESC, id ASC
			 LIMIT $5
			 `
		rows, err = s.db.QueryContext(ctx, query, q.OwnerID, q.Kind, c.CreatedAt, c.ID, limit+1)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	page := &Page{}
	for rows.Next() {
		var d Document
		var data []byte
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Kind, &data, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.Data = json.RawMessage(data)
		page.Documents = append(page.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(page.Documents) > limit {
		page.Documents = page.Documents[:limit]
		last := page.Documents[limit-1]
		page.Cursor = encodeCursor(cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *PostgresStore) Merge(ctx context.Context, ownerID, kind, id string, patch json.RawMessage) (*Document, error) {
	query :=
		`UPDATE catalog_entries
		 SET doc = doc || $4::jsonb, updated_at = now()
		 WHERE owner_id = $1 AND kind = $2 AND id = $3
		 RETURNING id, owner_id, kind, doc, created_at, updated_at
		 `

	return scanDoc(s.db.QueryRowContext(ctx, query, ownerID, kind, id, []byte(patch)))
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID, kind, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM catalog_entries WHERE owner_id = $1 AND kind = $2 AND id = $3`,
			ownerID, kind, id)
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

		return bumpCount(ctx, tx, ownerID, kind, -1)
	})
}

func (s *PostgresStore) Count(ctx context.Context, ownerID, kind string) (int64, error) {
	query :=
		`SELECT n FROM catalog_counts
		 WHERE owner_id = $1 AND kind = $2
		 `

	var n int64
	err := s.db.QueryRowContext(ctx, query, ownerID, kind).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func bumpCount(ctx context.Context, tx dbx.DBTX, ownerID, kind string, delta int64) error {
	query :=
		`INSERT INTO catalog_counts (owner_id, kind, n)
		 VALUES ($1, $2, GREATEST($3, 0))
		 ON CONFLICT (owner_id, kind)
		 DO UPDATE SET n = GREATEST(catalog_counts.n + $3, 0)
		 `

	if _, err := tx.ExecContext(ctx, query, ownerID, kind, delta); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanDoc(row *sql.Row) (*Document, error) {
	var d Document
	var data []byte
	err := row.Scan(&d.ID, &d.OwnerID, &d.Kind, &data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	d.Data = json.RawMessage(data)
	return &d, nil
}
