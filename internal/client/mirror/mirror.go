// Package mirror keeps a durable, encoded copy of the session snapshot
// outside process memory. Every operation fails open: a broken or missing
// record reads as absent and write failures are only logged.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophfit/internal/logging"
)

// Store is the byte-oriented backing storage. Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Mirror struct {
	store    Store
	codec    Codec
	decoders []Codec
	logger   logging.Logger
}

type Option func(*Mirror)

// WithCodec sets the codec used for writing. Records written by the
// default obfuscating codec stay readable.
func WithCodec(c Codec) Option {
	return func(m *Mirror) {
		m.codec = c
	}
}

func New(store Store, l logging.Logger, opts ...Option) *Mirror {
	m := &Mirror{
		store:  store,
		codec:  ObfuscatingCodec{},
		logger: l.With("module", "mirror"),
	}
	for _, o := range opts {
		o(m)
	}
	m.decoders = []Codec{m.codec}
	if _, ok := m.codec.(ObfuscatingCodec); !ok {
		m.decoders = append(m.decoders, ObfuscatingCodec{})
	}
	return m
}

// Save serializes v, encodes it and writes it under key.
func (m *Mirror) Save(ctx context.Context, key string, v any) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(ctx, "mirror save panicked", "key", key, "panic", fmt.Sprint(r))
		}
	}()

	plain, err := json.Marshal(v)
	if err != nil {
		m.logger.Error(ctx, "mirror serialize failed", "key", key, "error", err)
		return
	}
	encoded, err := m.codec.Encode(plain)
	if err != nil {
		m.logger.Error(ctx, "mirror encode failed", "key", key, "error", err)
		return
	}
	if err := m.store.Set(ctx, key, encoded); err != nil {
		m.logger.Error(ctx, "mirror write failed", "key", key, "error", err)
	}
}

// Load reads the record under key into dst and reports whether it did.
// Records without a known marker are tried as raw legacy JSON. When Load
// returns false the contents of dst are unspecified.
func (m *Mirror) Load(ctx context.Context, key string, dst any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(ctx, "mirror load panicked", "key", key, "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	stored, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn(ctx, "mirror read failed", "key", key, "error", err)
		return false
	}
	if len(stored) == 0 {
		return false
	}

	for _, d := range m.decoders {
		plain, err := d.Decode(stored)
		if errors.Is(err, ErrUnknownMarker) {
			continue
		}
		if err == nil {
			if err = json.Unmarshal(plain, dst); err == nil {
				return true
			}
		}
		m.logger.Warn(ctx, "mirror record unreadable", "key", key, "error", err)
		break
	}

	if !json.Valid(stored) {
		return false
	}
	if err := json.Unmarshal(stored, dst); err != nil {
		m.logger.Warn(ctx, "mirror legacy record unreadable", "key", key, "error", err)
		return false
	}
	m.logger.Debug(ctx, "mirror loaded legacy record", "key", key)
	return true
}

// Clear removes the record under key. Removing an absent record is not an error.
func (m *Mirror) Clear(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn(ctx, "mirror clear failed", "key", key, "error", err)
	}
}
