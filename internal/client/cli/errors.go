package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/common"
)

var (
	errUsage       = errors.New("usage")
	errNotSignedIn = errors.New("not signed in")
	errNoAI        = errors.New("no AI provider configured")
	errNotPaid     = errors.New("payment required")
)

// friendlyError turns an error into a short message for the user.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.Is(err, common.ErrorAlreadyExists):
		return "This e-mail is already registered. Try logging in."
	case errors.Is(err, remote.ErrUnauthorized), errors.Is(err, common.ErrorUnauthorized):
		return "Authentication failed. Check your e-mail and password, or log in again."
	case errors.Is(err, common.ErrorValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, capability.ErrRateLimited), errors.Is(err, common.ErrRateLimited):
		return "Too many attempts. Please wait a moment."
	case errors.Is(err, capability.ErrNoCredentials), errors.Is(err, errNoAI):
		return "AI features are off: no API key is configured."
	case errors.Is(err, capability.ErrAttemptTimeout):
		return "The AI took too long to answer. Try again."
	case errors.Is(err, capability.ErrUnavailable):
		return "The AI service is unavailable right now. Try again later."
	case errors.Is(err, capability.ErrMalformedResponse):
		return "The AI returned an unexpected answer. Try again."
	case errors.Is(err, remote.ErrUnavailable):
		return "Network error: the server could not be reached."
	case errors.Is(err, remote.ErrNotConfigured):
		return "This needs a server connection."
	case errors.Is(err, errNotSignedIn):
		return "Log in or continue as guest first."
	case errors.Is(err, errNotPaid):
		return "Unlock your plan first (pay)."
	case errors.Is(err, session.ErrStale):
		return "That result belonged to a previous session and was discarded."
	case errors.Is(err, pipeline.ErrNoProfile):
		return "Complete onboarding first (onboard)."
	case errors.Is(err, pipeline.ErrNoAnalysis):
		return "Analyze a body photo first (analyze <photo>)."
	case errors.Is(err, pipeline.ErrNoPlan):
		return "Generate a plan first (plan)."
	case errors.Is(err, pipeline.ErrInvalidStep):
		return "Unknown screen."
	}

	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "api key") {
		return "Invalid AI API key."
	}
	if msg == "" {
		return "Unknown error. Please try again."
	}
	return msg
}

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}
