package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// UnitModN returns a u ∈ ℤₙˣ.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	for i := 0; i < maxIterations; i++ {
		u := ModN(rand, n)
		if u.IsUnit(n) == 1 {
			return u
		}
	}
	panic(ErrMaxIterations)
}

// Below samples a uniform x with 0 ≤ x < bound.
func Below(rand io.Reader, bound *saferith.Nat) *saferith.Nat {
	bits := bound.TrueLen()
	buf := make([]byte, (bits+7)/8)
	excess := uint(len(buf)*8 - bits)
	out := new(saferith.Nat)
	for {
		mustReadBits(rand, buf)
		// clear the bits above the size of bound so that at least half the candidates are accepted
		buf[0] &= 0xff >> excess
		out.SetBytes(buf)
		if _, _, lt := out.Cmp(bound); lt == 1 {
			return out
		}
	}
}

// QNR samples a random quadratic non-residue in ℤₙ, that is an element whose Jacobi symbol is -1.
func QNR(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	nBig := n.Big()
	for i := 0; i < maxIterations; i++ {
		w := ModN(rand, n)
		if big.Jacobi(w.Big(), nBig) == -1 {
			return w
		}
	}
	panic(ErrMaxIterations)
}

// Pedersen generates the s, t, λ such that s = tˡ mod n, where t is a random quadratic residue.
func Pedersen(rand io.Reader, phi *saferith.Nat, n *saferith.Modulus) (s, t, lambda *saferith.Nat) {
	phiMod := saferith.ModulusFromNat(phi)

	lambda = ModN(rand, phiMod)

	tau := UnitModN(rand, n)
	// t = τ² mod N
	t = tau.ModMul(tau, tau, n)
	// s = tˡ mod N
	s = new(saferith.Nat).Exp(t, lambda, n)

	return
}

// Scalar returns a uniform non-zero scalar.
// 16 extra bytes are sampled so that the reduction mod q is statistically close to uniform.
func Scalar(rand io.Reader) *curve.Scalar {
	buf := make([]byte, 32+16)
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf)
		s := curve.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a random scalar x and the point x⋅G.
func ScalarPointPair(rand io.Reader) (*curve.Scalar, *curve.Point) {
	s := Scalar(rand)
	return s, s.ActOnBase()
}
