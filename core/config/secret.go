package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// MinSecretKeyLen is the shortest key considered strong.
	MinSecretKeyLen = 32

	// GeneratedSecretKeyLen is the length of keys made by GenerateSecretKey.
	GeneratedSecretKeyLen = 64
)

// SecretKey is the master secret from which feature keys are derived.
// It decodes from base64 (standard or URL alphabet, padded or not) or hex.
type SecretKey struct {
	key      []byte
	provided bool
}

// NewSecretKey wraps raw key material as a provided key.
func NewSecretKey(key []byte) SecretKey {
	k := make([]byte, len(key))
	copy(k, key)
	return SecretKey{key: k, provided: len(k) > 0}
}

// GenerateSecretKey creates a random key. Generated keys are not "provided".
func GenerateSecretKey() (SecretKey, error) {
	k := make([]byte, GeneratedSecretKeyLen)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		return SecretKey{}, fmt.Errorf("generate secret key: %w", err)
	}
	return SecretKey{key: k}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SecretKey) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*k = SecretKey{}
		return nil
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil && len(b) > 0 {
			*k = SecretKey{key: b, provided: true}
			return nil
		}
	}
	if b, err := hex.DecodeString(s); err == nil && len(b) > 0 {
		*k = SecretKey{key: b, provided: true}
		return nil
	}

	return fmt.Errorf("%w: expected base64 or hex", ErrInvalidSecretKey)
}

// Provided reports whether the key came from configuration.
func (k SecretKey) Provided() bool { return k.provided }

// IsZero reports whether there is no key material at all.
func (k SecretKey) IsZero() bool { return len(k.key) == 0 }

// Weak reports whether the key is shorter than MinSecretKeyLen bytes.
func (k SecretKey) Weak() bool { return len(k.key) < MinSecretKeyLen }

// Len returns the key length in bytes.
func (k SecretKey) Len() int { return len(k.key) }

// Derive returns n bytes of key material bound to info using HKDF-SHA256.
func (k SecretKey) Derive(info string, n int) ([]byte, error) {
	if k.IsZero() {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidSecretKey)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k.key, nil, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("derive %q: %w", info, err)
	}
	return out, nil
}

// String never reveals key material.
func (k SecretKey) String() string {
	switch {
	case k.IsZero():
		return "[none]"
	case k.provided:
		return "[provided]"
	default:
		return "[generated]"
	}
}
