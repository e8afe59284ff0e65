// Package capability calls rate-limited external providers: it rotates API
// credentials, retries transient failures with a linear backoff and parses
// JSON answers that may come wrapped in markdown fences.
package capability

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
)

// Credential is one API key for a provider.
type Credential struct {
	Index int
	Key   string
}

// String never prints the key itself.
func (c Credential) String() string {
	if len(c.Key) <= 8 {
		return fmt.Sprintf("key#%d", c.Index)
	}
	return fmt.Sprintf("key#%d(...%s)", c.Index, c.Key[len(c.Key)-4:])
}

// Strategy picks the index of the next credential out of n.
type Strategy interface {
	Pick(n int) int
}

// Random picks uniformly.
type Random struct{}

func (Random) Pick(n int) int {
	return rand.IntN(n)
}

// RoundRobin cycles through the credentials in order.
type RoundRobin struct {
	next atomic.Uint64
}

func (r *RoundRobin) Pick(n int) int {
	return int((r.next.Add(1) - 1) % uint64(n))
}

// StrategyByName maps a config value to a Strategy. Unknown names pick Random.
func StrategyByName(name string) Strategy {
	if strings.EqualFold(name, "roundrobin") || strings.EqualFold(name, "round-robin") {
		return &RoundRobin{}
	}
	return Random{}
}

// CredentialPool is an immutable set of credentials plus a selection strategy.
type CredentialPool struct {
	creds    []Credential
	strategy Strategy
}

// NewCredentialPool builds a pool from keys, dropping blank ones. A nil
// strategy means Random.
func NewCredentialPool(keys []string, s Strategy) (*CredentialPool, error) {
	var creds []Credential
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		creds = append(creds, Credential{Index: len(creds), Key: k})
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}
	if s == nil {
		s = Random{}
	}
	return &CredentialPool{creds: creds, strategy: s}, nil
}

// Next returns the credential for the next attempt.
func (p *CredentialPool) Next() Credential {
	return p.creds[p.strategy.Pick(len(p.creds))]
}

func (p *CredentialPool) Len() int {
	return len(p.creds)
}
