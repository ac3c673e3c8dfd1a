package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
)

// LocaleRepository implements localization.Repository using PostgreSQL.
type LocaleRepository struct {
	pool *pgxpool.Pool
}

// NewLocaleRepository creates a new LocaleRepository.
func NewLocaleRepository(pool *pgxpool.Pool) *LocaleRepository {
	return &LocaleRepository{pool: pool}
}

func (r *LocaleRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		SELECT value FROM locale_resource WHERE name = $1`,
		name,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", domainErrors.ErrResourceNotFound
		}
		return "", fmt.Errorf("get locale resource %s: %w", name, err)
	}
	return value, nil
}

func (r *LocaleRepository) Upsert(ctx context.Context, name, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO locale_resource (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("upsert locale resource %s: %w", name, err)
	}
	return nil
}

func (r *LocaleRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM locale_resource WHERE name = $1`,
		name,
	)
	if err != nil {
		return fmt.Errorf("delete locale resource %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrResourceNotFound
	}
	return nil
}
