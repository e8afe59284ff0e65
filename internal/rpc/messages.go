package rpc

import (
	"encoding/json"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokensResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type Empty struct{}

type SessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type ProfileResponse struct {
	// Profile is the stored record verbatim; empty when none exists.
	Profile json.RawMessage `json:"profile,omitempty"`
}

type PutProfileRequest struct {
	Profile json.RawMessage `json:"profile"`
}

type PlanResponse struct {
	Plan *models.Plan `json:"plan,omitempty"`
}

type InsertPlanRequest struct {
	Plan   *models.Plan `json:"plan"`
	Active bool         `json:"active"`
}

type ActivatePlanRequest struct {
	Plan *models.Plan `json:"plan"`
}

type AppendHistoryRequest struct {
	Kind  models.HistoryKind `json:"kind"`
	Entry json.RawMessage    `json:"entry"`
}

type HistoryResponse struct {
	History models.History `json:"history"`
}

type CheckoutRequest struct{}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PresignPhotoRequest struct {
	ContentType string `json:"contentType"`
}

type PresignPhotoResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
