package arith

import (
	"github.com/cronokirby/saferith"
)

// IsValidNatModN checks that ints are all in the range [1,…,N-1] and are co-prime to N.
func IsValidNatModN(n *saferith.Modulus, ints ...*saferith.Nat) bool {
	for _, i := range ints {
		if i == nil {
			return false
		}
		if _, _, lt := i.CmpMod(n); lt != 1 {
			return false
		}
		if i.IsUnit(n) != 1 {
			return false
		}
	}
	return true
}

// IsInRange returns true if every x in xs satisfies 0 ≤ x < bound.
func IsInRange(bound *saferith.Nat, xs ...*saferith.Nat) bool {
	for _, x := range xs {
		if x == nil {
			return false
		}
		if _, _, lt := x.Cmp(bound); lt != 1 {
			return false
		}
	}
	return true
}

// Mul returns x⋅y as a new Nat of exact size.
func Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Mul(x, y, -1)
}

// MulAdd returns e⋅x + y as a new Nat of exact size.
func MulAdd(e, x, y *saferith.Nat) *saferith.Nat {
	ex := new(saferith.Nat).Mul(e, x, -1)
	return new(saferith.Nat).Add(ex, y, -1)
}
