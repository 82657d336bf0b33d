package mta

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestMtA(t *testing.T) {
	alice, _ := zk.Fixtures()
	dk := alice.Paillier
	ek := dk.PublicKey

	k := sample.Scalar(rand.Reader)
	x := sample.Scalar(rand.Reader)
	K, _ := ek.Enc(rand.Reader, k.Nat())
	kx := curve.NewScalar().Multiply(k, x)

	tests := []struct {
		name string
		tag  params.Tag
		X    *curve.Point
	}{
		{"without check", params.TagMtaProof, nil},
		{"with check", params.TagMtaProofWc, x.ActOnBase()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D, proof, secret := Prove(rand.Reader, zk.NewHash(tt.tag, 1, 0), ek, alice.Pedersen, K, x, tt.X)
			assert.True(t, Verify(zk.NewHash(tt.tag, 1, 0), ek, alice.Pedersen, K, D, tt.X, proof))
			assert.False(t, Verify(zk.NewHash(tt.tag, 0, 1), ek, alice.Pedersen, K, D, tt.X, proof), "wrong prover")
			assert.False(t, Verify(zk.NewHash(tt.tag, 1, 0), ek, alice.Pedersen, K, K, tt.X, proof), "wrong response")
			assert.False(t, Verify(zk.NewHash(tt.tag, 1, 0), ek, alice.Pedersen, K, D, tt.X, nil), "missing proof")

			alpha, err := Decrypt(dk, D)
			require.NoError(t, err)
			sum := curve.NewScalar().Add(alpha.Share(), secret.Share())
			assert.True(t, sum.Equal(kx), "α - β' should be k⋅x")

			assert.True(t, alpha.Opens(ek, D))
			assert.False(t, alpha.Opens(ek, K))
			assert.True(t, secret.Opens(ek, K, D, x))
			assert.False(t, secret.Opens(ek, K, D, k))
		})
	}
}

func TestSecretOpensRejectsLargeBeta(t *testing.T) {
	alice, _ := zk.Fixtures()
	ek := alice.Paillier.PublicKey

	k := sample.Scalar(rand.Reader)
	x := sample.Scalar(rand.Reader)
	K, _ := ek.Enc(rand.Reader, k.Nat())

	// β' ≥ q⁵ opens the right ciphertext but would let the responder bias α
	big := ek.RandomPlaintext(rand.Reader)
	d, rho := ek.Enc(rand.Reader, big)
	d.Add(ek, K.Clone().Mul(ek, x.Nat()))
	secret := Secret{BetaPrime: big, Randomness: rho}
	assert.False(t, secret.Opens(ek, K, d, x))

	assert.False(t, Secret{}.Opens(ek, K, d, x))
	assert.False(t, Plaintext{}.Opens(ek, d))
}
