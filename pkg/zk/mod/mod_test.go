package zkmod

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

func TestMod(t *testing.T) {
	pl := pool.NewPool(0)

	fixture, _ := zk.Fixtures()
	sk := fixture.Paillier
	public := Public{N: sk.PublicKey.N()}
	private := Private{
		P:   sk.P(),
		Q:   sk.Q(),
		Phi: sk.Phi(),
	}

	proof := NewProof(rand.Reader, hash.New(params.TagPaillierKeyProof), private, public, pl)
	require.True(t, proof.Verify(hash.New(params.TagPaillierKeyProof), public, pl), "failed to verify proof")
	assert.True(t, proof.Verify(hash.New(params.TagPaillierKeyProof), public, nil), "verification must not depend on the pool")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	var decoded Proof
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, decoded.Verify(hash.New(params.TagPaillierKeyProof), public, pl))

	bad := *proof
	bad.Responses = append([]Response{}, proof.Responses...)
	bad.Responses[0].X = new(saferith.Nat).SetUint64(1)
	assert.False(t, bad.Verify(hash.New(params.TagPaillierKeyProof), public, pl), "proof should have failed")

	bad.Responses = proof.Responses[1:]
	assert.False(t, bad.Verify(hash.New(params.TagPaillierKeyProof), public, pl), "truncated proof should have failed")

	_, verifier := zk.Fixtures()
	assert.False(t, proof.Verify(hash.New(params.TagPaillierKeyProof), Public{N: verifier.Paillier.N()}, pl), "proof is bound to N")
}

func Test_set4thRoot(t *testing.T) {
	var p, q uint64 = 311, 331
	pMod := saferith.ModulusFromUint64(p)
	pHalf := new(saferith.Nat).SetUint64((p - 1) / 2)
	qMod := saferith.ModulusFromUint64(q)
	qHalf := new(saferith.Nat).SetUint64((q - 1) / 2)
	n := saferith.ModulusFromUint64(p * q)
	phi := new(saferith.Nat).SetUint64((p - 1) * (q - 1))
	y := new(saferith.Nat).SetUint64(502)
	w := sample.QNR(rand.Reader, n)

	a, b, x := makeQuadraticResidue(y, w, pHalf, qHalf, n, pMod, qMod)

	e := fourthRootExponent(phi)
	root := new(saferith.Nat).Exp(x, e, n)
	if b {
		y.ModMul(y, w, n)
	}
	if a {
		y.ModNeg(y, n)
	}

	assert.NotEqual(t, saferith.Choice(1), root.Eq(new(saferith.Nat).SetUint64(1)), "root cannot be 1")
	root.Exp(root, new(saferith.Nat).SetUint64(4), n)
	assert.Equal(t, saferith.Choice(1), root.Eq(y), "root^4 should be equal to y")
}
