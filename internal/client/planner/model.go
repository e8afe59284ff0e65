// Package planner turns profiles, photos and videos into analyses, plans and
// coaching text by prompting a generative model through the capability caller.
package planner

import (
	"context"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
)

// Part is one piece of a multimodal prompt: text, or inline data with its MIME type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func TextPart(s string) Part {
	return Part{Text: s}
}

func DataPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// Request is a provider-neutral generation request.
type Request struct {
	System      string
	Parts       []Part
	JSON        bool
	Temperature *float32
}

// Model is a generative backend. Implementations map provider rate limits
// and outages to capability.ErrRateLimited and capability.ErrUnavailable.
type Model interface {
	Name() string
	Generate(ctx context.Context, cred capability.Credential, req Request) (string, error)
}

func temperature(v float32) *float32 {
	return &v
}
