package zksch

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
)

func TestSchPass(t *testing.T) {
	x, X := sample.ScalarPointPair(rand.Reader)

	proof := NewProof(rand.Reader, hash.New(params.TagSchnorrProof), X, x)
	assert.True(t, proof.Verify(hash.New(params.TagSchnorrProof), X), "failed passing test")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	var decoded Proof
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, decoded.Verify(hash.New(params.TagSchnorrProof), X))
}

func TestSchFail(t *testing.T) {
	x, X := curve.NewScalar(), curve.NewIdentityPoint()

	proof := NewProof(rand.Reader, hash.New(params.TagSchnorrProof), X, x)
	assert.False(t, proof.Verify(hash.New(params.TagSchnorrProof), X), "proof should not accept identity point")

	y, Y := sample.ScalarPointPair(rand.Reader)
	proof = NewProof(rand.Reader, hash.New(params.TagSchnorrProof), Y, y)
	assert.False(t, proof.Verify(hash.New(params.TagPedersenProof), Y), "proof should be bound to its tag")
	assert.False(t, proof.Verify(hash.New(params.TagSchnorrProof), sample.Scalar(rand.Reader).ActOnBase()))
}
