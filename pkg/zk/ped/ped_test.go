package zkped

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

func TestPed(t *testing.T) {
	sigma := sample.Scalar(rand.Reader)
	l := sample.Scalar(rand.Reader)
	T := Commit(sigma, l)
	_, R := sample.ScalarPointPair(rand.Reader)
	S := curve.NewIdentityPoint().ScalarMult(sigma, R)

	tests := []struct {
		name    string
		newHash func() *hash.Hash
		public  Public
	}{
		{"plain", func() *hash.Hash { return zk.NewHash(params.TagPedersenProof, 1, 0) }, Public{T: T}},
		{"wc", func() *hash.Hash { return zk.NewHash(params.TagPedersenProof, 1, 0) }, Public{T: T, S: S, R: R}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proof := NewProof(rand.Reader, tt.newHash(), tt.public, Private{Sigma: sigma, L: l})
			assert.True(t, proof.Verify(tt.newHash(), tt.public))

			data, err := cbor.Marshal(proof)
			require.NoError(t, err)
			var decoded Proof
			require.NoError(t, cbor.Unmarshal(data, &decoded))
			assert.True(t, decoded.Verify(tt.newHash(), tt.public))

			bad := *proof
			bad.Z2 = curve.NewScalar().Add(proof.Z2, curve.NewScalarUInt32(1))
			assert.False(t, bad.Verify(tt.newHash(), tt.public))
		})
	}

	t.Run("wrong S", func(t *testing.T) {
		public := Public{T: T, S: sigma.ActOnBase(), R: R}
		proof := NewProof(rand.Reader, zk.NewHash(params.TagPedersenProof, 1, 0), public, Private{Sigma: sigma, L: l})
		assert.False(t, proof.Verify(zk.NewHash(params.TagPedersenProof, 1, 0), public))
	})
}
