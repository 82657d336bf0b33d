package zkenc

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestEnc(t *testing.T) {
	prover, verifier := zk.Fixtures()
	pk := prover.Paillier.PublicKey

	k := sample.Scalar(rand.Reader)
	K, rho := pk.Enc(rand.Reader, k.Nat())

	public := Public{
		K:      K,
		Prover: pk,
		Aux:    verifier.Pedersen,
	}

	proof := NewProof(rand.Reader, zk.NewHash(params.TagRangeProof, 0, 1), public, Private{K: k, Rho: rho})
	assert.True(t, proof.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))

	t.Run("wrong transcript", func(t *testing.T) {
		assert.False(t, proof.Verify(zk.NewHash(params.TagRangeProof, 1, 0), public))
		assert.False(t, proof.Verify(zk.NewHash(params.TagRangeProofWc, 0, 1), public))
	})

	t.Run("cbor", func(t *testing.T) {
		data, err := cbor.Marshal(proof)
		require.NoError(t, err)
		var decoded Proof
		require.NoError(t, cbor.Unmarshal(data, &decoded))
		assert.True(t, decoded.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))
	})

	t.Run("corrupted", func(t *testing.T) {
		bad := *proof
		bad.S1 = new(saferith.Nat).Add(proof.S1, new(saferith.Nat).SetUint64(1), -1)
		assert.False(t, bad.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))

		bad = *proof
		bad.S1 = new(saferith.Nat).Add(zk.Q3(), zk.Q3(), -1)
		assert.False(t, bad.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))

		bad = *proof
		bad.U = nil
		assert.False(t, bad.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))
	})

	t.Run("wrong witness", func(t *testing.T) {
		proof := NewProof(rand.Reader, zk.NewHash(params.TagRangeProof, 0, 1), public, Private{K: sample.Scalar(rand.Reader), Rho: rho})
		assert.False(t, proof.Verify(zk.NewHash(params.TagRangeProof, 0, 1), public))
	})
}
