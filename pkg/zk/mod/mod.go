// Package zkmod proves that N is a Paillier-Blum modulus, that is N = p⋅q with p, q ≡ 3 (mod 4) primes
// and gcd(N, ϕ(N)) = 1.
package zkmod

import (
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
)

type Public struct {
	// N = p*q
	N *saferith.Modulus
}

type Private struct {
	// P, Q primes such that
	// P, Q ≡ 3 mod 4
	P, Q *saferith.Nat
	// Phi = ϕ(n) = (p-1)(q-1)
	Phi *saferith.Nat
}

type Response struct {
	// A, B s.t. y' = (-1)ᵃ wᵇ y
	A, B bool
	// X = y' ^ {1/4}
	X *saferith.Nat
	// Z = y^{N⁻¹ mod ϕ(N)}
	Z *saferith.Nat
}

type Proof struct {
	W         *saferith.Nat
	Responses []Response
}

// isQRModPQ checks that y is a quadratic residue mod both p and q.
//
// p and q should be prime numbers.
//
// pHalf should be (p - 1) / 2
//
// qHalf should be (q - 1) / 2.
func isQRmodPQ(y, pHalf, qHalf *saferith.Nat, p, q *saferith.Modulus) saferith.Choice {
	oneNat := new(saferith.Nat).SetUint64(1).Resize(1)

	test := new(saferith.Nat)
	test.Exp(y, pHalf, p)
	pOk := test.Eq(oneNat)

	test.Exp(y, qHalf, q)
	qOk := test.Eq(oneNat)

	return pOk & qOk
}

// fourthRootExponent returns the exponent e such that (qrᵉ)⁴ = qr (mod n), given that:
//   - n = p•q
//   - phi = (p-1)(q-1)
//   - p,q = 3 (mod 4)  =>  n = 1 (mod 4)
//   - Jacobi(qr, p) == Jacobi(qr, q) == 1
//
// Set e to
//
//	       ϕ + 4
//	e' = ------,   e = (e')²
//	         8
func fourthRootExponent(phi *saferith.Nat) *saferith.Nat {
	e := new(saferith.Nat).SetUint64(4)
	e.Add(e, phi, -1)
	e.Rsh(e, 3, -1)
	e.ModMul(e, e, saferith.ModulusFromNat(phi))
	return e
}

// makeQuadraticResidue return a, b and y' such that:
//
//	y' = (-1)ᵃ • wᵇ • y
//
// is a QR.
//
// With:
//   - n=pq is a blum integer
//   - w is a quadratic non residue in Zn
//   - y is an element that may or may not be a QR
//   - pHalf = (p - 1) / 2
//   - qHalf = (p - 1) / 2
//
// Leaking the return values is fine, but not the input values related to the factorization of N.
func makeQuadraticResidue(y, w, pHalf, qHalf *saferith.Nat, n, p, q *saferith.Modulus) (a, b bool, out *saferith.Nat) {
	out = new(saferith.Nat).Mod(y, n)

	if isQRmodPQ(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	// multiply by -1
	out.ModNeg(out, n)
	a, b = true, false
	if isQRmodPQ(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	// multiply by w again
	out.ModMul(out, w, n)
	a, b = true, true
	if isQRmodPQ(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	// multiply by -1 again
	out.ModNeg(out, n)
	a, b = false, true
	return
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.W == nil {
		return false
	}
	if len(p.Responses) != params.ZKModIterations {
		return false
	}
	if big.Jacobi(p.W.Big(), public.N.Big()) != -1 {
		return false
	}
	if !arith.IsValidNatModN(public.N, p.W) {
		return false
	}
	for _, r := range p.Responses {
		if !arith.IsValidNatModN(public.N, r.X, r.Z) {
			return false
		}
	}
	return true
}

// NewProof generates a proof that:
//   - n = pq
//   - p and q are odd primes
//   - p, q == 3 (mod n)
//
// With:
//   - W s.t. (w/N) = -1
//   - x = y' ^ {1/4}
//   - z = y^{N⁻¹ mod ϕ(N)}
//   - a, b s.t. y' = (-1)ᵃ wᵇ y
//   - R = [(xᵢ aᵢ, bᵢ), zᵢ] for i = 1, …, m
func NewProof(rand io.Reader, hash *hash.Hash, private Private, public Public, pl *pool.Pool) *Proof {
	n, p, q, phi := public.N, private.P, private.Q, private.Phi
	nModulus := arith.ModulusFromFactors(p, q)
	pHalf := new(saferith.Nat).Rsh(p, 1, -1)
	pMod := saferith.ModulusFromNat(p)
	qHalf := new(saferith.Nat).Rsh(q, 1, -1)
	qMod := saferith.ModulusFromNat(q)
	phiMod := saferith.ModulusFromNat(phi)
	// W can be leaked so no need to make this sampling return a nat.
	w := sample.QNR(rand, n)

	nInverse := new(saferith.Nat).ModInverse(n.Nat(), phiMod)

	e := fourthRootExponent(phi)

	ys := challenge(hash, n, w)

	rs := pool.Parallelize(pl, params.ZKModIterations, func(i int) Response {
		y := ys[i]

		// Z = y^{n⁻¹ (mod n)}
		z := nModulus.Exp(y, nInverse)

		a, b, yPrime := makeQuadraticResidue(y, w, pHalf, qHalf, n, pMod, qMod)
		// X = (y')¹/4
		x := nModulus.Exp(yPrime, e)

		return Response{
			A: a,
			B: b,
			X: x,
			Z: z,
		}
	})

	return &Proof{
		W:         w,
		Responses: rs,
	}
}

func (r *Response) Verify(n *saferith.Modulus, w, y *saferith.Nat) bool {
	lhs := new(saferith.Nat).Exp(r.Z, n.Nat(), n)
	// zⁿ = y (mod n)
	if lhs.Eq(y) != 1 {
		return false
	}

	// lhs = x⁴ (mod n)
	lhs.ModMul(r.X, r.X, n)
	lhs.ModMul(lhs, lhs, n)

	// rhs = y' = (-1)ᵃ • wᵇ • y
	rhs := new(saferith.Nat).Mod(y, n)
	if r.A {
		rhs.ModNeg(rhs, n)
	}
	if r.B {
		rhs.ModMul(rhs, w, n)
	}

	return lhs.Eq(rhs) == 1
}

func (p *Proof) Verify(hash *hash.Hash, public Public, pl *pool.Pool) bool {
	if p == nil {
		return false
	}
	n := public.N.Big()
	// check if n is odd and not prime
	if n.Bit(0) == 0 || n.ProbablyPrime(20) {
		return false
	}

	if !p.IsValid(public) {
		return false
	}

	// get [yᵢ] <- ℤₙ
	ys := challenge(hash, public.N, p.W)
	verifications := pool.Parallelize(pl, params.ZKModIterations, func(i int) bool {
		return p.Responses[i].Verify(public.N, p.W, ys[i])
	})
	for _, ok := range verifications {
		if !ok {
			return false
		}
	}
	return true
}

func challenge(hash *hash.Hash, n *saferith.Modulus, w *saferith.Nat) []*saferith.Nat {
	h := hash.Clone()
	_ = h.WriteAny(n, w)
	digest := h.Digest()
	es := make([]*saferith.Nat, params.ZKModIterations)
	for i := range es {
		es[i] = sample.ModN(digest, n)
	}
	return es
}
