package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/server/config"
)

var (
	newCheckoutSession = session.New
	constructEvent     = webhook.ConstructEvent
)

const eventCheckoutCompleted = "checkout.session.completed"

// PaidMarker latches a user's paid flag.
type PaidMarker interface {
	MarkPaid(ctx context.Context, userID, paymentDate string) error
}

// PaymentRecorder counts payment events.
type PaymentRecorder interface {
	CheckoutCreated()
	PaymentConfirmed()
}

type nopRecorder struct{}

func (nopRecorder) CheckoutCreated()  {}
func (nopRecorder) PaymentConfirmed() {}

type Checkout struct {
	SessionID string
	URL       string
}

// PaymentService creates Stripe checkout sessions and applies their
// completion webhooks.
type PaymentService struct {
	marker        PaidMarker
	recorder      PaymentRecorder
	logger        logging.Logger
	secretKey     string
	webhookSecret string
	priceID       string
	successURL    string
	cancelURL     string
}

func NewPaymentService(m PaidMarker, r PaymentRecorder, l logging.Logger, cfg *config.Config) *PaymentService {
	if r == nil {
		r = nopRecorder{}
	}
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}
	return &PaymentService{
		marker:        m,
		recorder:      r,
		logger:        l.With("module", "payments"),
		secretKey:     cfg.StripeSecretKey,
		webhookSecret: cfg.StripeWebhookSecret,
		priceID:       cfg.StripePriceID,
		successURL:    cfg.CheckoutSuccessURL,
		cancelURL:     cfg.CheckoutCancelURL,
	}
}

// CreateCheckout opens a one-off payment session for userID. The user ID
// travels as the client reference and comes back in the webhook.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID, email string) (*Checkout, error) {
	if s.secretKey == "" || s.priceID == "" {
		return nil, fmt.Errorf("payments: %w", ErrNotConfigured)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(userID),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx

	sess, err := newCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.recorder.CheckoutCreated()
	s.logger.Info(ctx, "checkout session created", "user_id", userID, "session_id", sess.ID)
	return &Checkout{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhook verifies a Stripe event and marks the buyer as paid when a
// checkout completes. Other event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret == "" {
		return fmt.Errorf("webhook: %w", ErrNotConfigured)
	}

	event, err := constructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: bad webhook signature: %v", common.ErrorValidation, err)
	}

	if event.Type != eventCheckoutCompleted {
		s.logger.Debug(ctx, "webhook ignored", "type", event.Type)
		return nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return fmt.Errorf("%w: bad checkout session: %v", common.ErrorValidation, err)
	}

	if cs.ClientReferenceID == "" {
		s.logger.Warn(ctx, "checkout without client reference", "session_id", cs.ID)
		return nil
	}
	if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.logger.Info(ctx, "checkout completed without payment", "session_id", cs.ID, "status", string(cs.PaymentStatus))
		return nil
	}

	paidAt := time.Unix(event.Created, 0).UTC().Format(time.RFC3339)
	if err := s.marker.MarkPaid(ctx, cs.ClientReferenceID, paidAt); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}

	s.recorder.PaymentConfirmed()
	s.logger.Info(ctx, "payment confirmed", "user_id", cs.ClientReferenceID, "session_id", cs.ID)
	return nil
}
