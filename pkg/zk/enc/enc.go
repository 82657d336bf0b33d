// Package zkenc proves that a Paillier ciphertext encrypts a plaintext in the range [0, q³].
package zkenc

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
		// K = Enc₀(k;ρ)
		K *paillier.Ciphertext

		Prover *paillier.PublicKey
		// Aux is the verifier's setup.
		Aux *pedersen.Parameters
	}
	Private struct {
		// K = k = Dec₀(K)
		K *curve.Scalar

		// Rho = ρ, nonce of K
		Rho *saferith.Nat
	}
)

type Commitment struct {
	// Z = sᵏ tᵖ
	Z *saferith.Nat
	// U = Enc₀(α;β)
	U *paillier.Ciphertext
	// W = sᵅ tᵞ
	W *saferith.Nat
}

type Proof struct {
	Commitment
	// S = ρᵉ⋅β (mod N₀)
	S *saferith.Nat
	// S1 = e⋅k + α
	S1 *saferith.Nat
	// S2 = e⋅p + γ
	S2 *saferith.Nat
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil {
		return false
	}
	if p.S1 == nil || p.S2 == nil {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.U) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.S) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.Z, p.W) {
		return false
	}
	return true
}

func NewProof(rand io.Reader, hash *hash.Hash, public Public, private Private) *Proof {
	nTilde := public.Aux.N().Nat()

	alpha := sample.Below(rand, zk.Q3())
	rho := sample.Below(rand, zk.QTimes(nTilde))
	gamma := sample.Below(rand, zk.Q3Times(nTilde))

	k := private.K.Nat()
	U, beta := public.Prover.Enc(rand, alpha)

	commitment := Commitment{
		Z: public.Aux.Commit(k, rho),
		U: U,
		W: public.Aux.Commit(alpha, gamma),
	}

	e := challenge(hash, public, commitment).Nat()

	S := public.Prover.Modulus().Exp(private.Rho, e)
	S.ModMul(S, beta, public.Prover.N())

	return &Proof{
		Commitment: commitment,
		S:          S,
		S1:         arith.MulAdd(e, k, alpha),
		S2:         arith.MulAdd(e, rho, gamma),
	}
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	if !zk.IsInQ3(p.S1) {
		return false
	}

	prover := public.Prover

	e := challenge(hash, public, p.Commitment).Nat()

	{
		// lhs = Enc(s₁;s)
		lhs := prover.EncWithNonce(p.S1, p.S)

		// rhs = (e ⊙ K) ⊕ U
		rhs := public.K.Clone().Mul(prover, e).Add(prover, p.U)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	// sˢ¹ tˢ² = W Zᵉ
	return public.Aux.Verify(p.S1, p.S2, e, p.W, p.Z)
}

func challenge(hash *hash.Hash, public Public, commitment Commitment) *curve.Scalar {
	h := hash.Clone()
	_ = h.WriteAny(public.Aux, public.Prover, public.K,
		commitment.Z, commitment.U, commitment.W)
	return zk.Challenge(h)
}
