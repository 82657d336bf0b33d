// Package rng derives deterministic randomness streams from a long-term secret.
package rng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

const derivationContext = "tofn 2021 rng seed v1"

var ErrSessionNonce = errors.New("rng: invalid session nonce length")

// New returns a reader producing a chacha20 keystream keyed by
// blake3-derive-key(tag ∥ index ∥ sessionNonce ∥ secretRecoveryKey).
// The same inputs always produce the same stream.
func New(tag params.RNGTag, index int, secretRecoveryKey, sessionNonce []byte) (io.Reader, error) {
	if l := len(sessionNonce); l < params.SessionNonceMinLen || l > params.SessionNonceMaxLen {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrSessionNonce, l, params.SessionNonceMinLen, params.SessionNonceMaxLen)
	}
	if len(secretRecoveryKey) != params.SecretRecoveryKeyLen {
		return nil, fmt.Errorf("rng: secret recovery key has length %d, expected %d", len(secretRecoveryKey), params.SecretRecoveryKeyLen)
	}

	h := blake3.NewDeriveKey(derivationContext)
	var header [1 + 4 + 4]byte
	header[0] = byte(tag)
	binary.BigEndian.PutUint32(header[1:5], uint32(index))
	binary.BigEndian.PutUint32(header[5:9], uint32(len(sessionNonce)))
	_, _ = h.Write(header[:])
	_, _ = h.Write(sessionNonce)
	_, _ = h.Write(secretRecoveryKey)

	return newStream(h.Sum(nil)[:chacha20.KeySize])
}

// NewFromSeed returns a reader producing a chacha20 keystream keyed by blake3-derive-key(seed).
func NewFromSeed(seed []byte) (io.Reader, error) {
	key := make([]byte, chacha20.KeySize)
	blake3.DeriveKey(derivationContext, seed, key)
	return newStream(key)
}

type stream struct {
	cipher *chacha20.Cipher
}

func newStream(key []byte) (io.Reader, error) {
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("rng: %w", err)
	}
	return &stream{cipher: c}, nil
}

// Read implements io.Reader by filling p with keystream bytes.
func (s *stream) Read(p []byte) (int, error) {
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
