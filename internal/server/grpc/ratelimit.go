package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophfit/internal/common"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per caller. Callers are keyed by user
// ID once authenticated, by peer address otherwise.
type RateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastAccess = rl.now()
	return cl.limiter.AllowN(cl.lastAccess, 1)
}

// Sweep forgets callers idle for longer than idle and returns how many.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	n := 0
	for k, cl := range rl.clients {
		if cl.lastAccess.Before(cutoff) {
			delete(rl.clients, k)
			n++
		}
	}
	return n
}

func callerKey(ctx context.Context) string {
	if id, ok := userIDFromContext(ctx); ok {
		return "user:" + id
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		return "peer:" + addr
	}
	return "anonymous"
}

func (rl *RateLimiter) UnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !rl.allow(callerKey(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, common.ErrRateLimited.Error())
	}
	return handler(ctx, req)
}
