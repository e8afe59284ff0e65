package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes a surrounding markdown code fence, with or without a
// json language tag.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseJSON decodes a provider answer into T after stripping fences.
func ParseJSON[T any](text string) (T, error) {
	var out T
	body := StripFences(text)
	if body == "" {
		return out, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// CallJSON is Call for operations returning JSON text. A response that
// does not parse is returned as ErrMalformedResponse and is not retried.
func CallJSON[T any](ctx context.Context, c *Caller, op func(ctx context.Context, cred Credential) (string, error)) (T, error) {
	text, err := Call(ctx, c, op)
	if err != nil {
		var zero T
		return zero, err
	}
	return ParseJSON[T](text)
}
