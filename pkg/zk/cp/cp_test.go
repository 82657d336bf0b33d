package zkcp

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestChaumPedersen(t *testing.T) {
	_, base1 := sample.ScalarPointPair(rand.Reader)
	_, base2 := sample.ScalarPointPair(rand.Reader)
	x := sample.Scalar(rand.Reader)
	public := Public{
		Base1:   base1,
		Base2:   base2,
		Target1: curve.NewIdentityPoint().ScalarMult(x, base1),
		Target2: curve.NewIdentityPoint().ScalarMult(x, base2),
	}

	proof := NewProof(rand.Reader, zk.NewHash(params.TagChaumPedersenProof, 0, 0), public, x)
	assert.True(t, proof.Verify(zk.NewHash(params.TagChaumPedersenProof, 0, 0), public))

	bad := *proof
	bad.T = curve.NewScalar().Add(proof.T, curve.NewScalarUInt32(1))
	assert.False(t, bad.Verify(zk.NewHash(params.TagChaumPedersenProof, 0, 0), public))

	wrong := public
	wrong.Target2 = base2
	proof = NewProof(rand.Reader, zk.NewHash(params.TagChaumPedersenProof, 0, 0), wrong, x)
	assert.False(t, proof.Verify(zk.NewHash(params.TagChaumPedersenProof, 0, 0), wrong))
}
