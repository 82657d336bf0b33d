package zklogstar

import (
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestLogStar(t *testing.T) {
	prover, verifier := zk.Fixtures()
	pk := prover.Paillier.PublicKey

	_, G := sample.ScalarPointPair(rand.Reader)
	x := sample.Scalar(rand.Reader)
	C, rho := pk.Enc(rand.Reader, x.Nat())
	X := curve.NewIdentityPoint().ScalarMult(x, G)

	public := Public{
		C:      C,
		X:      X,
		G:      G,
		Prover: pk,
		Aux:    verifier.Pedersen,
	}
	newHash := func() *hash.Hash { return zk.NewHash(params.TagRangeProofWc, 2, 3) }

	proof := NewProof(rand.Reader, newHash(), public, Private{X: x, Rho: rho})
	assert.True(t, proof.Verify(newHash(), public))

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	var decoded Proof
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, decoded.Verify(newHash(), public))

	t.Run("default base", func(t *testing.T) {
		public := public
		public.G = nil
		public.X = x.ActOnBase()
		proof := NewProof(rand.Reader, newHash(), public, Private{X: x, Rho: rho})
		assert.True(t, proof.Verify(newHash(), public))
	})

	t.Run("wrong point", func(t *testing.T) {
		public := public
		public.X = x.ActOnBase()
		assert.False(t, proof.Verify(newHash(), public))
	})

	t.Run("corrupted Y", func(t *testing.T) {
		bad := *proof
		bad.Y = curve.NewIdentityPoint().Add(proof.Y, curve.NewBasePoint())
		assert.False(t, bad.Verify(newHash(), public))
	})
}
