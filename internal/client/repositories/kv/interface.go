// Package kv is the client's small key/value table. It backs the local
// mirror, the mirror key salt and the persisted auth tokens.
package kv

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
