package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetActive(ctx context.Context, userID string) (*models.Plan, error) {
	query := `
		SELECT id, data FROM plans
		WHERE user_id = $1 AND active
	`
	var (
		id   string
		data []byte
	)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&id, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	plan := &models.Plan{}
	if err := json.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	plan.ID = id
	return plan, nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context, userID string) error {
	query := `
		UPDATE plans SET active = FALSE
		WHERE user_id = $1 AND active
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, userID string, plan *models.Plan, active bool) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	// An existing id of the same user is rewritten in place, so edits and
	// repeated pushes of one plan do not collide with its own row.
	query := `
		INSERT INTO plans (id, user_id, data, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, active = EXCLUDED.active
		WHERE plans.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, plan.ID, userID, data, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", plan.ID, common.ErrorAlreadyExists)
	}
	return nil
}
