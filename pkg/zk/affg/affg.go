// Package zkaffg proves that a ciphertext D = (x ⊙ C) ⊕ Enc₀(y;ρ) is a correct MtA response,
// with x ∈ [0, q³]. When X is given, it also proves that X = x⋅G.
package zkaffg

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

type (
	Public struct {
		// C = Enc₀(k)
		// Alice's ciphertext
		C *paillier.Ciphertext

		// D = (x ⨀ C) ⨁ Enc₀(y;ρ)
		D *paillier.Ciphertext

		// X = x⋅G, for the variant with check.
		// X = nil when the proof only concerns the ciphertexts.
		X *curve.Point

		// Verifier = N₀ encrypts both C and D.
		Verifier *paillier.PublicKey
		Aux      *pedersen.Parameters
	}

	Private struct {
		// X is Bob's multiplicative share
		X *curve.Scalar

		// Y ∈ ℤ₀ is Bob's blinding plaintext, his additive share is -y (mod q)
		Y *saferith.Nat

		// Rho = nonce of Enc₀(y;ρ)
		Rho *saferith.Nat
	}
)

type Commitment struct {
	// Z = sˣ tᵖ
	Z *saferith.Nat
	// ZPrime = sᵅ tᵖ'
	ZPrime *saferith.Nat
	// T = sʸ tᵠ
	T *saferith.Nat
	// U = α⋅G, only with check
	U *curve.Point `cbor:",omitempty"`
	// V = (α ⨀ C) ⨁ Enc₀(γ;β)
	V *paillier.Ciphertext
	// W = sᵞ tᵗ
	W *saferith.Nat
}

type Proof struct {
	Commitment
	// S = ρᵉ⋅β (mod N₀)
	S *saferith.Nat
	// S1 = e⋅x + α
	S1 *saferith.Nat
	// S2 = e⋅p + p'
	S2 *saferith.Nat
	// T1 = e⋅y + γ
	T1 *saferith.Nat
	// T2 = e⋅σ + τ
	T2 *saferith.Nat
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil {
		return false
	}
	if p.S1 == nil || p.S2 == nil || p.T1 == nil || p.T2 == nil {
		return false
	}
	if (public.X == nil) != (p.U == nil) {
		return false
	}
	if !public.Verifier.ValidateCiphertexts(p.V) {
		return false
	}
	if !arith.IsValidNatModN(public.Verifier.N(), p.S) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.Z, p.ZPrime, p.T, p.W) {
		return false
	}
	return true
}

func NewProof(rand io.Reader, hash *hash.Hash, public Public, private Private) *Proof {
	N0 := public.Verifier.N()
	nTilde := public.Aux.N().Nat()
	qNTilde := zk.QTimes(nTilde)

	x := private.X.Nat()

	alpha := sample.Below(rand, zk.Q3())
	rho := sample.Below(rand, qNTilde)
	rhoPrime := sample.Below(rand, zk.Q3Times(nTilde))
	sigma := sample.Below(rand, qNTilde)
	tau := sample.Below(rand, qNTilde)
	gamma := sample.ModN(rand, N0)

	// V = (α ⊙ C) ⊕ Enc₀(γ;β)
	V, beta := public.Verifier.Enc(rand, gamma)
	V.Add(public.Verifier, public.C.Clone().Mul(public.Verifier, alpha))

	commitment := Commitment{
		Z:      public.Aux.Commit(x, rho),
		ZPrime: public.Aux.Commit(alpha, rhoPrime),
		T:      public.Aux.Commit(private.Y, sigma),
		V:      V,
		W:      public.Aux.Commit(gamma, tau),
	}
	if public.X != nil {
		commitment.U = curve.NewScalar().SetNat(alpha).ActOnBase()
	}

	e := challenge(hash, public, commitment).Nat()

	S := public.Verifier.Modulus().Exp(private.Rho, e)
	S.ModMul(S, beta, N0)

	return &Proof{
		Commitment: commitment,
		S:          S,
		S1:         arith.MulAdd(e, x, alpha),
		S2:         arith.MulAdd(e, rho, rhoPrime),
		T1:         arith.MulAdd(e, private.Y, gamma),
		T2:         arith.MulAdd(e, sigma, tau),
	}
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	if !zk.IsInQ3(p.S1) {
		return false
	}

	verifier := public.Verifier

	eScalar := challenge(hash, public, p.Commitment)
	e := eScalar.Nat()

	if public.X != nil {
		// s₁⋅G = U + e⋅X
		lhs := curve.NewScalar().SetNat(p.S1).ActOnBase()
		rhs := curve.NewIdentityPoint().ScalarMult(eScalar, public.X)
		rhs.Add(rhs, p.U)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	// sˢ¹ tˢ² = Z' Zᵉ
	if !public.Aux.Verify(p.S1, p.S2, e, p.ZPrime, p.Z) {
		return false
	}

	// sᵗ¹ tᵗ² = W Tᵉ
	if !public.Aux.Verify(p.T1, p.T2, e, p.W, p.T) {
		return false
	}

	{
		// lhs = (s₁ ⊙ C) ⊕ Enc₀(t₁;s)
		lhs := verifier.EncWithNonce(p.T1, p.S)
		lhs.Add(verifier, public.C.Clone().Mul(verifier, p.S1))

		// rhs = (e ⊙ D) ⊕ V
		rhs := public.D.Clone().Mul(verifier, e).Add(verifier, p.V)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, public Public, commitment Commitment) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(public.Aux, public.Verifier, public.C, public.D)
	if public.X != nil {
		_ = h.WriteAny(public.X, commitment.U)
	}
	_ = h.WriteAny(commitment.Z, commitment.ZPrime, commitment.T, commitment.V, commitment.W)
	return zk.Challenge(h)
}
