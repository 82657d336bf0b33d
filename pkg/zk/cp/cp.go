// Package zkcp is a Chaum-Pedersen proof that two points share the same discrete log x
// with respect to two bases: Target1 = x⋅Base1 and Target2 = x⋅Base2.
package zkcp

import (
	"io"

	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

type Public struct {
	Base1, Base2, Target1, Target2 *curve.Point
}

type Proof struct {
	// Alpha1 = a⋅Base1
	Alpha1 *curve.Point
	// Alpha2 = a⋅Base2
	Alpha2 *curve.Point
	// T = a + e⋅x
	T *curve.Scalar
}

func NewProof(rand io.Reader, hash *hash.Hash, public Public, x *curve.Scalar) *Proof {
	a := sample.Scalar(rand)
	proof := &Proof{
		Alpha1: curve.NewIdentityPoint().ScalarMult(a, public.Base1),
		Alpha2: curve.NewIdentityPoint().ScalarMult(a, public.Base2),
	}
	e := challenge(hash, public, proof)
	proof.T = curve.NewScalar().MultiplyAdd(e, x, a)
	return proof
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if p == nil || p.Alpha1 == nil || p.Alpha2 == nil || p.T == nil {
		return false
	}
	if public.Base1 == nil || public.Base2 == nil || public.Target1 == nil || public.Target2 == nil {
		return false
	}

	e := challenge(hash, public, p)

	for _, check := range []struct{ base, target, alpha *curve.Point }{
		{public.Base1, public.Target1, p.Alpha1},
		{public.Base2, public.Target2, p.Alpha2},
	} {
		// t⋅Base = Alpha + e⋅Target
		lhs := curve.NewIdentityPoint().ScalarMult(p.T, check.base)
		rhs := curve.NewIdentityPoint().ScalarMult(e, check.target)
		rhs.Add(rhs, check.alpha)
		if !lhs.Equal(rhs) {
			return false
		}
	}
	return true
}

func challenge(hash *hash.Hash, public Public, proof *Proof) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(public.Base1, public.Base2, public.Target1, public.Target2, proof.Alpha1, proof.Alpha2)
	return zk.Challenge(h)
}
