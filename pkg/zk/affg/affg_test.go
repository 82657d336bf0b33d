package zkaffg

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestAffG(t *testing.T) {
	alice, _ := zk.Fixtures()
	pk := alice.Paillier.PublicKey

	a := sample.Scalar(rand.Reader)
	C, _ := pk.Enc(rand.Reader, a.Nat())

	b := sample.Scalar(rand.Reader)
	betaPrime := pk.RandomPlaintext(rand.Reader)
	Y, rho := pk.Enc(rand.Reader, betaPrime)
	D := C.Clone().Mul(pk, b.Nat()).Add(pk, Y)

	private := Private{X: b, Y: betaPrime, Rho: rho}

	tests := []struct {
		name string
		tag  params.Tag
		X    *curve.Point
	}{
		{"mta", params.TagMtaProof, nil},
		{"mta wc", params.TagMtaProofWc, b.ActOnBase()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			public := Public{
				C:        C,
				D:        D,
				X:        tt.X,
				Verifier: pk,
				Aux:      alice.Pedersen,
			}
			proof := NewProof(rand.Reader, zk.NewHash(tt.tag, 1, 0), public, private)
			assert.True(t, proof.Verify(zk.NewHash(tt.tag, 1, 0), public))
			assert.False(t, proof.Verify(zk.NewHash(tt.tag, 0, 1), public))

			data, err := cbor.Marshal(proof)
			require.NoError(t, err)
			var decoded Proof
			require.NoError(t, cbor.Unmarshal(data, &decoded))
			assert.True(t, decoded.Verify(zk.NewHash(tt.tag, 1, 0), public))

			bad := *proof
			bad.T1 = new(saferith.Nat).Add(proof.T1, new(saferith.Nat).SetUint64(1), -1)
			assert.False(t, bad.Verify(zk.NewHash(tt.tag, 1, 0), public))

			// the additive share decrypted by Alice is a⋅b + β'
			alpha, err := alice.Paillier.Dec(D)
			require.NoError(t, err)
			beta := curve.NewScalar().SetNat(betaPrime)
			expected := curve.NewScalar().Multiply(a, b)
			expected.Add(expected, beta)
			assert.True(t, curve.NewScalar().SetNat(alpha).Equal(expected))
		})
	}

	t.Run("wc mismatch", func(t *testing.T) {
		public := Public{C: C, D: D, X: sample.Scalar(rand.Reader).ActOnBase(), Verifier: pk, Aux: alice.Pedersen}
		proof := NewProof(rand.Reader, zk.NewHash(params.TagMtaProofWc, 1, 0), public, private)
		assert.False(t, proof.Verify(zk.NewHash(params.TagMtaProofWc, 1, 0), public))

		public.X = nil
		assert.False(t, proof.Verify(zk.NewHash(params.TagMtaProofWc, 1, 0), public))
	})
}
