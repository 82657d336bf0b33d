// Package zksch is a Schnorr proof of knowledge of x such that X = x⋅G.
package zksch

import (
	"io"

	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

type Proof struct {
	// A = a⋅G
	A *curve.Point
	// Z = a + e⋅x
	Z *curve.Scalar
}

func challenge(hash *hash.Hash, A, X *curve.Point) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(X, A)
	return zk.Challenge(h)
}

// NewProof proves knowledge of x = dlog(X).
func NewProof(rand io.Reader, hash *hash.Hash, X *curve.Point, x *curve.Scalar) *Proof {
	a, A := sample.ScalarPointPair(rand)
	e := challenge(hash, A, X)
	z := curve.NewScalar().MultiplyAdd(e, x, a)
	return &Proof{A: A, Z: z}
}

func (p *Proof) IsValid() bool {
	if p == nil || p.A == nil || p.Z == nil {
		return false
	}
	return !p.A.IsIdentity()
}

func (p *Proof) Verify(hash *hash.Hash, X *curve.Point) bool {
	if !p.IsValid() || X == nil || X.IsIdentity() {
		return false
	}

	e := challenge(hash, p.A, X)

	lhs := p.Z.ActOnBase()
	rhs := curve.NewIdentityPoint().ScalarMult(e, X)
	rhs.Add(rhs, p.A)

	return lhs.Equal(rhs)
}
