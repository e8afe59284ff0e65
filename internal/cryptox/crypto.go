// Package cryptox wraps the primitives GophFit relies on: argon2id for
// password hashes and key derivation, AES-GCM for sealing the local mirror.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
	saltLen      = 16
	hashScheme   = "argon2id"
)

var (
	ErrMalformedHash  = errors.New("malformed password hash")
	ErrSealedTooShort = errors.New("sealed data too short")
)

// DeriveKey stretches a passphrase into a 32-byte AES key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// HashPassword returns a self-describing "argon2id$<salt>$<hash>" string
// with a fresh random salt.
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	hash := DeriveKey(password, salt)
	enc := base64.RawStdEncoding
	return fmt.Sprintf("%s$%s$%s", hashScheme, enc.EncodeToString(salt), enc.EncodeToString(hash))
}

// VerifyPassword checks password against a HashPassword result in constant time.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return false, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false, ErrMalformedHash
	}

	got := DeriveKey(password, salt)
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered input fails authentication.
func Open(key, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(sealed) < ns {
		return nil, ErrSealedTooShort
	}
	return aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
