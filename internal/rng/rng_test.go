package rng

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

func read(t *testing.T, r io.Reader) []byte {
	t.Helper()
	out := make([]byte, 64)
	_, err := io.ReadFull(r, out)
	require.NoError(t, err)
	return out
}

func TestNewDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{7}, params.SecretRecoveryKeyLen)
	nonce := []byte("session nonce")

	newRead := func(tag params.RNGTag, index int, nonce []byte) []byte {
		r, err := New(tag, index, key, nonce)
		require.NoError(t, err)
		return read(t, r)
	}

	a := newRead(params.RNGKeyPair, 0, nonce)
	assert.Equal(t, a, newRead(params.RNGKeyPair, 0, nonce))
	assert.NotEqual(t, a, newRead(params.RNGZkSetup, 0, nonce))
	assert.NotEqual(t, a, newRead(params.RNGKeyPair, 1, nonce))
	assert.NotEqual(t, a, newRead(params.RNGKeyPair, 0, []byte("other nonce")))

	r, err := New(params.RNGKeyPair, 0, key, nonce)
	require.NoError(t, err)
	first, second := read(t, r), read(t, r)
	assert.NotEqual(t, first, second, "stream must advance")
}

func TestNewInvalidInputs(t *testing.T) {
	key := make([]byte, params.SecretRecoveryKeyLen)
	_, err := New(params.RNGKeyPair, 0, key, []byte{1})
	assert.ErrorIs(t, err, ErrSessionNonce)
	_, err = New(params.RNGKeyPair, 0, key, make([]byte, params.SessionNonceMaxLen+1))
	assert.ErrorIs(t, err, ErrSessionNonce)
	_, err = New(params.RNGKeyPair, 0, key[:10], []byte("nonce"))
	assert.Error(t, err)
}

func TestNewFromSeed(t *testing.T) {
	a, err := NewFromSeed([]byte("seed"))
	require.NoError(t, err)
	b, err := NewFromSeed([]byte("seed"))
	require.NoError(t, err)
	assert.Equal(t, read(t, a), read(t, b))
}
