// Package profiles stores each user's onboarding profile as a JSON document.
package profiles

import (
	"context"
	"encoding/json"
)

type Repository interface {
	// Get returns the stored document, or nil when the user has none.
	Get(ctx context.Context, userID string) (json.RawMessage, error)

	// Upsert replaces the document. A stored hasPaid=true survives the
	// write, together with its paymentDate when the new document has none.
	Upsert(ctx context.Context, userID string, data json.RawMessage) error

	// SetPaid latches hasPaid on, creating the document when missing.
	// An existing paymentDate is kept.
	SetPaid(ctx context.Context, userID string, paymentDate string) error
}
