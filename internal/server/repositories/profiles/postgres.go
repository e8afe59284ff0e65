package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophfit/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (json.RawMessage, error) {
	query := `
		SELECT data FROM profiles
		WHERE user_id = $1
	`
	var data []byte
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return json.RawMessage(data), nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, data json.RawMessage) error {
	query := `
		INSERT INTO profiles (user_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			data = CASE
				WHEN (profiles.data->>'hasPaid')::boolean IS TRUE THEN
					EXCLUDED.data || jsonb_build_object(
						'hasPaid', true,
						'paymentDate', COALESCE(NULLIF(EXCLUDED.data->>'paymentDate', ''), profiles.data->>'paymentDate', '')
					)
				ELSE EXCLUDED.data
			END,
			updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, []byte(data)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetPaid(ctx context.Context, userID string, paymentDate string) error {
	query := `
		INSERT INTO profiles (user_id, data, updated_at)
		VALUES ($1, jsonb_build_object('hasPaid', true, 'paymentDate', $2::text), now())
		ON CONFLICT (user_id) DO UPDATE SET
			data = profiles.data || jsonb_build_object(
				'hasPaid', true,
				'paymentDate', COALESCE(NULLIF(profiles.data->>'paymentDate', ''), $2::text)
			),
			updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, paymentDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
