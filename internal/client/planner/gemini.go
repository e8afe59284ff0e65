package planner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel talks to Google's Gemini API. One client is kept per credential.
type GeminiModel struct {
	model   string
	baseURL string

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewGeminiModel(model string) *GeminiModel {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiModel{model: model, clients: map[string]*genai.Client{}}
}

// WithBaseURL overrides the API endpoint.
func (g *GeminiModel) WithBaseURL(u string) *GeminiModel {
	g.baseURL = u
	return g
}

func (g *GeminiModel) Name() string {
	return g.model
}

func (g *GeminiModel) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *GeminiModel) Generate(ctx context.Context, cred capability.Credential, req Request) (string, error) {
	client, err := g.client(ctx, cred.Key)
	if err != nil {
		return "", err
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Data != nil {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", mapGeminiError(err)
	}
	return resp.Text(), nil
}

func mapGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", capability.ErrRateLimited, err)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", capability.ErrUnavailable, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %w", capability.ErrRejected, err)
	}
	return err
}
