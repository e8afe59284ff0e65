package capability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfit/internal/logging"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestCaller(t *testing.T, keys []string, opts ...Option) (*Caller, *sleepRecorder) {
	t.Helper()
	pool, err := NewCredentialPool(keys, &RoundRobin{})
	require.NoError(t, err)
	rec := &sleepRecorder{}
	opts = append([]Option{WithSleep(rec.sleep)}, opts...)
	return NewCaller(pool, logging.NewNopLogger(), opts...), rec
}

func TestNewCredentialPool(t *testing.T) {
	_, err := NewCredentialPool(nil, nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewCredentialPool([]string{"", "  "}, nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	p, err := NewCredentialPool([]string{"a", "", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
}

func TestRoundRobin(t *testing.T) {
	p, err := NewCredentialPool([]string{"k0", "k1", "k2"}, &RoundRobin{})
	require.NoError(t, err)

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, p.Next().Key)
	}
	assert.Equal(t, []string{"k0", "k1", "k2", "k0"}, got)
}

func TestRandomStaysInRange(t *testing.T) {
	p, err := NewCredentialPool([]string{"k0", "k1"}, Random{})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		k := p.Next().Key
		assert.Contains(t, []string{"k0", "k1"}, k)
	}
}

func TestStrategyByName(t *testing.T) {
	assert.IsType(t, &RoundRobin{}, StrategyByName("roundrobin"))
	assert.IsType(t, Random{}, StrategyByName("random"))
	assert.IsType(t, Random{}, StrategyByName(""))
}

func TestCredentialString_HidesKey(t *testing.T) {
	c := Credential{Index: 1, Key: "AIzaSySecretValue1234"}
	assert.Equal(t, "key#1(...1234)", c.String())
	assert.NotContains(t, c.String(), "Secret")
	assert.Equal(t, "key#0", Credential{Key: "short"}.String())
}

func TestCall_SucceedsFirstTry(t *testing.T) {
	c, rec := newTestCaller(t, []string{"k0"})

	got, err := Call(context.Background(), c, func(ctx context.Context, cred Credential) (string, error) {
		return "ok:" + cred.Key, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok:k0", got)
	assert.Empty(t, rec.delays)
}

func TestCall_RetryBoundIsExact(t *testing.T) {
	c, rec := newTestCaller(t, []string{"k0", "k1"})
	calls := 0
	var used []string

	_, err := Call(context.Background(), c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		used = append(used, cred.Key)
		return 0, errors.New("googleapi: Error 429: Resource has been exhausted")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
	assert.Equal(t, []string{"k0", "k1", "k0"}, used)
}

func TestCall_RecoversAfterTransient(t *testing.T) {
	c, rec := newTestCaller(t, []string{"k0"}, WithBaseDelay(10*time.Millisecond))
	calls := 0

	got, err := Call(context.Background(), c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		if calls == 1 {
			return 0, ErrUnavailable
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, rec.delays)
}

func TestCall_PermanentErrorAbortsImmediately(t *testing.T) {
	c, rec := newTestCaller(t, []string{"k0"})
	calls := 0
	boom := errors.New("invalid argument: bad image")

	_, err := Call(context.Background(), c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestCall_CancelledParent(t *testing.T) {
	c, _ := newTestCaller(t, []string{"k0"})
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Call(ctx, c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		cancel()
		return 0, ErrRateLimited
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)

	_, err = Call(ctx, c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCall_AttemptTimeoutIsTransient(t *testing.T) {
	c, rec := newTestCaller(t, []string{"k0"}, WithAttemptTimeout(20*time.Millisecond), WithAttempts(2))
	calls := 0

	_, err := Call(context.Background(), c, func(ctx context.Context, cred Credential) (int, error) {
		calls++
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, ErrAttemptTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
	assert.Len(t, rec.delays, 1)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrRateLimited, true},
		{ErrUnavailable, true},
		{errors.New("Error 503: service unavailable"), true},
		{errors.New("Rate limit reached for gpt-4o-mini"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{errors.New("permission denied"), false},
		{errors.New("model gemini-x is unavailable in region eu-west-9"), false},
		{errors.New("invalid field 503 in request"), false},
		{fmt.Errorf("%w: 400: overloaded prompt", ErrRejected), false},
		{errors.New("429 Too Many Requests"), true},
		{ErrMalformedResponse, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTransient(tt.err), "%v", tt.err)
	}
}

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```JSON{\"a\":1}```":     `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripFences(in))
	}
}

func TestCallJSON(t *testing.T) {
	type meal struct {
		Name     string  `json:"name"`
		Calories float64 `json:"calories"`
	}

	t.Run("fenced answer", func(t *testing.T) {
		c, _ := newTestCaller(t, []string{"k0"})
		got, err := CallJSON[meal](context.Background(), c, func(ctx context.Context, cred Credential) (string, error) {
			return "```json\n{\"name\":\"Tapioca\",\"calories\":320}\n```", nil
		})
		require.NoError(t, err)
		assert.Equal(t, meal{Name: "Tapioca", Calories: 320}, got)
	})

	t.Run("malformed is not retried", func(t *testing.T) {
		c, rec := newTestCaller(t, []string{"k0"})
		calls := 0
		_, err := CallJSON[meal](context.Background(), c, func(ctx context.Context, cred Credential) (string, error) {
			calls++
			return "Sure! Here is your meal.", nil
		})
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, 1, calls)
		assert.Empty(t, rec.delays)
	})

	t.Run("empty body", func(t *testing.T) {
		c, _ := newTestCaller(t, []string{"k0"})
		_, err := CallJSON[meal](context.Background(), c, func(ctx context.Context, cred Credential) (string, error) {
			return "``````", nil
		})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}
