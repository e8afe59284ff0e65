// Package history stores the append-only measurement and workout log.
package history

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

type Repository interface {
	Append(ctx context.Context, userID string, kind models.HistoryKind, entry json.RawMessage) error
	// List returns both logs ordered by entry date.
	List(ctx context.Context, userID string) (models.History, error)
}
