// Package remote is the client's view of the authoritative Remote Store.
//
// Store is the required surface; the smaller interfaces below are optional
// capabilities a backend may offer and callers detect with a type assertion.
package remote

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

// User is the signed-in identity.
type User struct {
	ID    string
	Email string
}

type AuthEvent int

const (
	SignedIn AuthEvent = iota + 1
	SignedOut
	TokenRefreshed
)

func (e AuthEvent) String() string {
	switch e {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	}
	return "UNKNOWN"
}

// AuthListener receives auth state changes. user is nil on SignedOut.
type AuthListener func(event AuthEvent, user *User)

type Store interface {
	// GetSession returns the current user, or nil when nobody is signed in.
	GetSession(ctx context.Context) (*User, error)
	// GetProfile returns the stored profile record verbatim, nil when there is none.
	GetProfile(ctx context.Context) (json.RawMessage, error)
	PutProfile(ctx context.Context, p models.Profile) error
	// GetActivePlan returns nil when the user has no active plan.
	GetActivePlan(ctx context.Context) (*models.Plan, error)
	DeactivateAllPlans(ctx context.Context) error
	InsertPlan(ctx context.Context, plan *models.Plan, active bool) error
	AppendHistory(ctx context.Context, kind models.HistoryKind, entry any) error
	GetHistory(ctx context.Context) (models.History, error)
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

// PlanActivator replaces the active plan atomically.
type PlanActivator interface {
	ActivatePlan(ctx context.Context, plan *models.Plan) error
}

type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
}

// Checkout starts a payment and returns the URL the user must visit.
type Checkout interface {
	CreateCheckout(ctx context.Context) (string, error)
}

// PhotoArchive hands out presigned upload URLs for progress photos.
type PhotoArchive interface {
	PresignPhotoUpload(ctx context.Context, contentType string) (key, url string, err error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
