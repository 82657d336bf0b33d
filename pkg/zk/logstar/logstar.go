// Package zklogstar proves that a Paillier ciphertext C encrypts x ∈ [0, q³], and that X = x⋅G for some base G.
package zklogstar

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
)

type Public struct {
	// C = Enc₀(x;ρ)
	C *paillier.Ciphertext

	// X = x⋅G
	X *curve.Point

	// G is the base point of the curve.
	// If G = nil, the default base point is used.
	G *curve.Point

	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

type Private struct {
	// X is the plaintext of C and the discrete log of X.
	X *curve.Scalar

	// Rho = ρ is nonce used to encrypt C.
	Rho *saferith.Nat
}

type Commitment struct {
	// S = sˣ tᵘ (mod N)
	S *saferith.Nat
	// A = Enc₀(α;r)
	A *paillier.Ciphertext
	// Y = α⋅G
	Y *curve.Point
	// D = sᵃ tᵍ (mod N)
	D *saferith.Nat
}

type Proof struct {
	Commitment
	// Z1 = α + e x
	Z1 *saferith.Nat
	// Z2 = r ρᵉ (mod N₀)
	Z2 *saferith.Nat
	// Z3 = γ + e μ
	Z3 *saferith.Nat
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Y == nil || p.Z1 == nil || p.Z3 == nil {
		return false
	}
	if p.Y.IsIdentity() {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Z2) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.S, p.D) {
		return false
	}
	return true
}

func NewProof(rand io.Reader, hash *hash.Hash, public Public, private Private) *Proof {
	g := base(public)
	nTilde := public.Aux.N().Nat()
	x := private.X.Nat()

	alpha := sample.Below(rand, zk.Q3())
	mu := sample.Below(rand, zk.QTimes(nTilde))
	gamma := sample.Below(rand, zk.Q3Times(nTilde))

	A, r := public.Prover.Enc(rand, alpha)

	commitment := Commitment{
		S: public.Aux.Commit(x, mu),
		A: A,
		Y: curve.NewIdentityPoint().ScalarMult(curve.NewScalar().SetNat(alpha), g),
		D: public.Aux.Commit(alpha, gamma),
	}

	e := challenge(hash, public, commitment).Nat()

	z2 := public.Prover.Modulus().Exp(private.Rho, e)
	z2.ModMul(z2, r, public.Prover.N())

	return &Proof{
		Commitment: commitment,
		Z1:         arith.MulAdd(e, x, alpha),
		Z2:         z2,
		Z3:         arith.MulAdd(e, mu, gamma),
	}
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	if !zk.IsInQ3(p.Z1) {
		return false
	}

	prover := public.Prover

	eScalar := challenge(hash, public, p.Commitment)
	e := eScalar.Nat()

	{
		// lhs = Enc(z₁;z₂)
		lhs := prover.EncWithNonce(p.Z1, p.Z2)

		// rhs = (e ⊙ C) ⊕ A
		rhs := public.C.Clone().Mul(prover, e).Add(prover, p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = [z₁]G
		lhs := curve.NewIdentityPoint().ScalarMult(curve.NewScalar().SetNat(p.Z1), base(public))

		// rhs = Y + [e]X
		rhs := curve.NewIdentityPoint().ScalarMult(eScalar, public.X)
		rhs.Add(rhs, p.Y)

		if !lhs.Equal(rhs) {
			return false
		}
	}

	// sᶻ¹ tᶻ³ = D Sᵉ
	return public.Aux.Verify(p.Z1, p.Z3, e, p.D, p.S)
}

func base(public Public) *curve.Point {
	if public.G == nil {
		return curve.NewBasePoint()
	}
	return public.G
}

func challenge(hash *hash.Hash, public Public, commitment Commitment) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(public.Aux, public.Prover, public.C, public.X, base(public),
		commitment.S, commitment.A, commitment.Y, commitment.D)
	return zk.Challenge(h)
}
