package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/cryptox"
)

const (
	ObfuscatedMarker = "GOPHFIT_MIRROR_v1_"
	SealedMarker     = "GOPHFIT_SEALED_v1_"

	// SaltKey is the KV key holding the salt for the sealing key.
	SaltKey = "gophfit_mirror_salt"

	saltSize = 16
)

// Codec turns serialized snapshots into stored bytes and back.
type Codec interface {
	Encode(plain []byte) ([]byte, error)
	Decode(stored []byte) ([]byte, error)
}

// ObfuscatingCodec prefixes a version marker and base64-encodes the payload.
// It hides nothing from a determined reader; the marker only lets the format evolve.
type ObfuscatingCodec struct{}

func (ObfuscatingCodec) Encode(plain []byte) ([]byte, error) {
	out := make([]byte, len(ObfuscatedMarker)+base64.StdEncoding.EncodedLen(len(plain)))
	copy(out, ObfuscatedMarker)
	base64.StdEncoding.Encode(out[len(ObfuscatedMarker):], plain)
	return out, nil
}

func (ObfuscatingCodec) Decode(stored []byte) ([]byte, error) {
	payload, ok := bytes.CutPrefix(stored, []byte(ObfuscatedMarker))
	if !ok {
		return nil, ErrUnknownMarker
	}
	plain, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return plain, nil
}

// SealingCodec stores snapshots in an AES-GCM envelope keyed by the user's passphrase.
type SealingCodec struct {
	key []byte
}

// NewSealingCodec derives the sealing key from passphrase and a per-device
// salt kept in store. The salt is created on first use.
func NewSealingCodec(ctx context.Context, store Store, passphrase string) (*SealingCodec, error) {
	salt, err := store.Get(ctx, SaltKey)
	if err != nil {
		return nil, fmt.Errorf("read mirror salt: %w", err)
	}
	if len(salt) != saltSize {
		salt = common.GenerateRandByteArray(saltSize)
		if err := store.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("store mirror salt: %w", err)
		}
	}
	return &SealingCodec{key: cryptox.DeriveKey([]byte(passphrase), salt)}, nil
}

func (c *SealingCodec) Encode(plain []byte) ([]byte, error) {
	sealed, err := cryptox.Seal(c.key, plain)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(SealedMarker)+base64.StdEncoding.EncodedLen(len(sealed)))
	copy(out, SealedMarker)
	base64.StdEncoding.Encode(out[len(SealedMarker):], sealed)
	return out, nil
}

func (c *SealingCodec) Decode(stored []byte) ([]byte, error) {
	payload, ok := bytes.CutPrefix(stored, []byte(SealedMarker))
	if !ok {
		return nil, ErrUnknownMarker
	}
	sealed, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	plain, err := cryptox.Open(c.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return plain, nil
}
