// Package plans stores generated plans. At most one plan per user is active.
package plans

import (
	"context"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

type Repository interface {
	// GetActive returns the active plan, or nil when there is none.
	GetActive(ctx context.Context, userID string) (*models.Plan, error)
	DeactivateAll(ctx context.Context, userID string) error
	// Insert stores plan, assigning an ID when it has none.
	Insert(ctx context.Context, userID string, plan *models.Plan, active bool) error
}
