package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/logging"
)

const (
	DefaultAttempts       = 3
	DefaultBaseDelay      = time.Second
	DefaultAttemptTimeout = 60 * time.Second
)

// Caller runs provider operations with credential rotation and bounded retries.
type Caller struct {
	pool           *CredentialPool
	attempts       int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	logger         logging.Logger
}

type Option func(*Caller)

func WithAttempts(n int) Option {
	return func(c *Caller) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Caller) {
		if d >= 0 {
			c.baseDelay = d
		}
	}
}

func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Caller) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithSleep replaces the backoff sleep, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Caller) {
		c.sleep = fn
	}
}

func NewCaller(pool *CredentialPool, l logging.Logger, opts ...Option) *Caller {
	c := &Caller{
		pool:           pool,
		attempts:       DefaultAttempts,
		baseDelay:      DefaultBaseDelay,
		attemptTimeout: DefaultAttemptTimeout,
		sleep:          sleepCtx,
		logger:         l.With("module", "capability"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// transientMarkers match untyped provider failures. Bare status numbers and
// "unavailable" are left out: they also occur in permanent errors such as
// a model being unavailable in a region.
var transientMarkers = []string{
	"resource has been exhausted",
	"resource_exhausted",
	"rate limit",
	"too many requests",
	"service unavailable",
	"status 429",
	"status 503",
	"overloaded",
}

// IsTransient reports whether err is worth another attempt. Typed errors
// decide first; message matching only applies to errors without a status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRejected) {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrAttemptTimeout) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Call runs op up to the configured number of attempts. Each attempt gets
// the next pool credential and its own timeout. Transient failures back off
// attempt*BaseDelay before the next try; there is no wait after the last
// one. Other errors and a cancelled ctx end the loop at once.
func Call[T any](ctx context.Context, c *Caller, op func(ctx context.Context, cred Credential) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		cred := c.pool.Next()
		v, err := runAttempt(ctx, c.attemptTimeout, cred, op)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		lastErr = err
		if !IsTransient(err) {
			return zero, err
		}

		c.logger.Warn(ctx, "attempt failed", "attempt", attempt, "of", c.attempts, "credential", cred.String(), "error", err)

		if attempt < c.attempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.baseDelay); err != nil {
				return zero, err
			}
		}
	}

	return zero, lastErr
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, cred Credential, op func(ctx context.Context, cred Credential) (T, error)) (T, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := op(actx, cred)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return v, fmt.Errorf("%w after %s: %w", ErrAttemptTimeout, timeout, err)
	}
	return v, err
}
