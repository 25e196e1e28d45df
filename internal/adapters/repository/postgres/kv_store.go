package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

// insufficient_resources, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const classInsufficientResources = "53"

type kvStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) ports.KeyValueStore {
	return &kvStore{
		db: db,
	}
}

func (r *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, classify("get", err)
	}
	return value, true, nil
}

func (r *kvStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW();
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return classify("set", err)
	}
	return nil
}

func (r *kvStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return classify("remove", err)
	}
	return nil
}

func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == classInsufficientResources {
		return fmt.Errorf("failed to %s key: %w: %w", op, domain.ErrStorageFull, err)
	}
	return fmt.Errorf("failed to %s key: %w: %w", op, domain.ErrStorageUnavailable, err)
}
