// Package zkprm proves knowledge of λ such that s = tˡ (mod N), for ring-Pedersen parameters (N, s, t).
package zkprm

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
)

type (
	Public struct {
		Aux *pedersen.Parameters
	}
	Private struct {
		Lambda, Phi *saferith.Nat
	}
)

type Proof struct {
	As, Zs []*saferith.Nat
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || public.Aux == nil {
		return false
	}
	if len(p.As) != params.ZKPrmIterations || len(p.Zs) != params.ZKPrmIterations {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.As...) {
		return false
	}
	for _, z := range p.Zs {
		if z == nil {
			return false
		}
	}
	return true
}

// NewProof generates a proof that:
// s = t^lambda (mod N).
func NewProof(rand io.Reader, hash *hash.Hash, private Private, public Public, pl *pool.Pool) *Proof {
	n := public.Aux.NArith()
	lambda := private.Lambda
	phi := saferith.ModulusFromNat(private.Phi)

	a := make([]*saferith.Nat, params.ZKPrmIterations)
	for i := range a {
		// aᵢ ∈ mod ϕ(N)
		a[i] = sample.ModN(rand, phi)
	}
	// Aᵢ = tᵃ mod N
	As := pool.Parallelize(pl, params.ZKPrmIterations, func(i int) *saferith.Nat {
		return n.Exp(public.Aux.T(), a[i])
	})

	es := challenge(hash, public, As)
	Zs := make([]*saferith.Nat, params.ZKPrmIterations)
	for i := range Zs {
		z := a[i]
		// The challenge is public, so branching is ok
		if es[i] {
			z.ModAdd(z, lambda, phi)
		}
		Zs[i] = z
	}

	return &Proof{
		As: As,
		Zs: Zs,
	}
}

func (p *Proof) Verify(hash *hash.Hash, public Public, pl *pool.Pool) bool {
	if !p.IsValid(public) {
		return false
	}
	if err := pedersen.ValidateParameters(public.Aux.N(), public.Aux.S(), public.Aux.T()); err != nil {
		return false
	}

	n, s, t := public.Aux.N(), public.Aux.S(), public.Aux.T()
	es := challenge(hash, public, p.As)

	one := new(saferith.Nat).SetUint64(1)
	verifications := pool.Parallelize(pl, params.ZKPrmIterations, func(i int) bool {
		z, a := p.Zs[i], p.As[i]
		if a.Eq(one) == 1 {
			return false
		}

		lhs := new(saferith.Nat).Exp(t, z, n)
		rhs := new(saferith.Nat).SetNat(a)
		if es[i] {
			rhs.ModMul(rhs, s, n)
		}
		return lhs.Eq(rhs) == 1
	})
	for _, ok := range verifications {
		if !ok {
			return false
		}
	}
	return true
}

func challenge(hash *hash.Hash, public Public, A []*saferith.Nat) []bool {
	h := hash.Clone()
	_ = h.WriteAny(public.Aux)
	for _, a := range A {
		_ = h.WriteAny(a)
	}

	tmpBytes := make([]byte, params.ZKPrmIterations)
	_, _ = io.ReadFull(h.Digest(), tmpBytes)

	out := make([]bool, params.ZKPrmIterations)
	for i := range out {
		out[i] = (tmpBytes[i] & 1) == 1
	}
	return out
}
