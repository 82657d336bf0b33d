// Package zkped proves knowledge of the opening (σ, l) of a Pedersen commitment T = σ⋅G + l⋅H
// on the curve, where H is the alternate generator.
//
// The variant with check additionally proves that S = σ⋅R for a public point R.
package zkped

import (
	"io"

	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

type Public struct {
	// T = σ⋅G + l⋅H
	T *curve.Point

	// S = σ⋅R and R, for the variant with check.
	S, R *curve.Point
}

type Private struct {
	Sigma, L *curve.Scalar
}

type Proof struct {
	// Alpha = a⋅G + b⋅H
	Alpha *curve.Point
	// Beta = a⋅R, only with check
	Beta *curve.Point `cbor:",omitempty"`
	// Z1 = a + e⋅σ
	Z1 *curve.Scalar
	// Z2 = b + e⋅l
	Z2 *curve.Scalar
}

// Commit returns σ⋅G + l⋅H.
func Commit(sigma, l *curve.Scalar) *curve.Point {
	lH := curve.NewIdentityPoint().ScalarMult(l, curve.AlternateGenerator())
	return lH.Add(lH, sigma.ActOnBase())
}

func (public Public) withCheck() bool {
	return public.R != nil
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Alpha == nil || p.Z1 == nil || p.Z2 == nil || public.T == nil {
		return false
	}
	if public.withCheck() != (p.Beta != nil) {
		return false
	}
	if public.withCheck() && public.S == nil {
		return false
	}
	return true
}

func NewProof(rand io.Reader, hash *hash.Hash, public Public, private Private) *Proof {
	a := sample.Scalar(rand)
	b := sample.Scalar(rand)

	proof := &Proof{Alpha: Commit(a, b)}
	if public.withCheck() {
		proof.Beta = curve.NewIdentityPoint().ScalarMult(a, public.R)
	}

	e := challenge(hash, public, proof)

	proof.Z1 = curve.NewScalar().MultiplyAdd(e, private.Sigma, a)
	proof.Z2 = curve.NewScalar().MultiplyAdd(e, private.L, b)
	return proof
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	e := challenge(hash, public, p)

	if public.withCheck() {
		// z₁⋅R = Beta + e⋅S
		lhs := curve.NewIdentityPoint().ScalarMult(p.Z1, public.R)
		rhs := curve.NewIdentityPoint().ScalarMult(e, public.S)
		rhs.Add(rhs, p.Beta)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	// z₁⋅G + z₂⋅H = Alpha + e⋅T
	lhs := Commit(p.Z1, p.Z2)
	rhs := curve.NewIdentityPoint().ScalarMult(e, public.T)
	rhs.Add(rhs, p.Alpha)
	return lhs.Equal(rhs)
}

func challenge(hash *hash.Hash, public Public, proof *Proof) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(public.T)
	if public.withCheck() {
		_ = h.WriteAny(public.S, public.R)
	}
	_ = h.WriteAny(proof.Alpha)
	if public.withCheck() {
		_ = h.WriteAny(proof.Beta)
	}
	return zk.Challenge(h)
}
