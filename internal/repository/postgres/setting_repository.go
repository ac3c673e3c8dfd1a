package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepository implements settings.Repository using PostgreSQL. Settings
// live in a (name, store_id, value) table; store_id 0 is the global scope and
// store-scoped rows override it.
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// LoadAll returns setting values resolved for the scope. A single query
// fetches both scopes; the store row wins because of the ordering.
func (r *SettingRepository) LoadAll(ctx context.Context, storeID int64) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, value
		FROM setting
		WHERE store_id IN (0, $1)
		ORDER BY store_id ASC`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return values, nil
}

// Exists reports whether a row exists for the exact (name, store_id) pair.
func (r *SettingRepository) Exists(ctx context.Context, name string, storeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM setting WHERE name = $1 AND store_id = $2)`,
		name, storeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check setting %s: %w", name, err)
	}
	return exists, nil
}

// Upsert writes a setting value for the given scope.
func (r *SettingRepository) Upsert(ctx context.Context, name, value string, storeID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO setting (name, value, store_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, store_id) DO UPDATE SET value = EXCLUDED.value`,
		name, value, storeID,
	)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", name, err)
	}
	return nil
}

// Delete removes the row for the exact (name, store_id) pair, if any.
func (r *SettingRepository) Delete(ctx context.Context, name string, storeID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM setting WHERE name = $1 AND store_id = $2`,
		name, storeID,
	)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", name, err)
	}
	return nil
}

// DeleteByPrefix removes matching settings for every scope.
func (r *SettingRepository) DeleteByPrefix(ctx context.Context, namePrefix string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM setting WHERE name LIKE $1 || '%'`,
		namePrefix,
	)
	if err != nil {
		return fmt.Errorf("delete settings by prefix %s: %w", namePrefix, err)
	}
	return nil
}
