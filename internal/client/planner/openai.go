package planner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel talks to the OpenAI chat completions API. Inline data is sent
// as a data URI image part.
type OpenAIModel struct {
	model   string
	baseURL string
}

func NewOpenAIModel(model string) *OpenAIModel {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIModel{model: model}
}

// WithBaseURL points the model at an OpenAI-compatible endpoint.
func (o *OpenAIModel) WithBaseURL(u string) *OpenAIModel {
	o.baseURL = u
	return o
}

func (o *OpenAIModel) Name() string {
	return o.model
}

func (o *OpenAIModel) newClient(key string) *openai.Client {
	if o.baseURL == "" {
		return openai.NewClient(key)
	}
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = o.baseURL
	return openai.NewClientWithConfig(cfg)
}

func (o *OpenAIModel) Generate(ctx context.Context, cred capability.Credential, req Request) (string, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	for _, p := range req.Parts {
		if p.Data != nil {
			uri := "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
			user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: uri, Detail: openai.ImageURLDetailAuto},
			})
			continue
		}
		user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: p.Text,
		})
	}
	msgs = append(msgs, user)

	creq := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: msgs,
	}
	if req.Temperature != nil {
		creq.Temperature = *req.Temperature
	}
	if req.JSON {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := o.newClient(cred.Key).CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", capability.ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func mapOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", capability.ErrRateLimited, err)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", capability.ErrUnavailable, err)
	}
	if status != 0 {
		return fmt.Errorf("%w: %w", capability.ErrRejected, err)
	}
	return err
}
