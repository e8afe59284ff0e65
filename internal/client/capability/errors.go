package capability

import "errors"

var (
	ErrNoCredentials     = errors.New("capability: no credentials configured")
	ErrRateLimited       = errors.New("capability: rate limited")
	ErrUnavailable       = errors.New("capability: provider unavailable")
	ErrAttemptTimeout    = errors.New("capability: attempt timed out")
	ErrMalformedResponse = errors.New("capability: malformed response")
	// ErrRejected marks a provider answer with a definite non-retryable status.
	ErrRejected = errors.New("capability: request rejected")
)
