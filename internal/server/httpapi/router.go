// Package httpapi serves the plain HTTP endpoints next to the gRPC API:
// health, metrics and the payment provider webhook.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/server/services"
)

const maxWebhookBody = 64 << 10

type WebhookHandler interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// RouterDeps holds what NewRouter wires together. Metrics may be nil.
type RouterDeps struct {
	Logger   logging.Logger
	Payments WebhookHandler
	Metrics  http.Handler
}

func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Post("/webhooks/stripe", stripeWebhook(deps.Payments, deps.Logger))

	return r
}

func stripeWebhook(p WebhookHandler, l logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		err = p.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, common.ErrorValidation):
			l.Warn(ctx, "Rejected webhook", "error", err)
			http.Error(w, "invalid webhook", http.StatusBadRequest)
		case errors.Is(err, services.ErrNotConfigured):
			http.Error(w, "payments not configured", http.StatusServiceUnavailable)
		default:
			l.Error(ctx, "Webhook failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
