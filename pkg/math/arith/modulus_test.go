package arith

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
)

func natFromInt(i int64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(uint64(i))
}

func TestModulus_Exp(t *testing.T) {
	// two Blum primes
	p, q := natFromInt(1000003), natFromInt(999983)
	cFast := ModulusFromFactors(p, q)
	cSlow := ModulusFromN(saferith.ModulusFromNat(new(saferith.Nat).Mul(p, q, -1)))
	assert.Equal(t, saferith.Choice(1), cFast.Nat().Eq(cSlow.Nat()), "n moduli should be the same")

	r := mrand.New(mrand.NewSource(0))
	for i := 0; i < 20; i++ {
		x := new(saferith.Nat).SetBig(new(big.Int).Rand(r, cSlow.Big()), cSlow.BitLen())
		e := natFromInt(r.Int63())
		want := new(saferith.Nat).Exp(x, e, cSlow.Modulus)
		assert.Equal(t, saferith.Choice(1), want.Eq(cFast.Exp(x, e)), "exponentiation with acceleration should give the same result")
		assert.Equal(t, saferith.Choice(1), want.Eq(cSlow.Exp(x, e)))
	}
}

func TestMulExp(t *testing.T) {
	n := ModulusFromN(saferith.ModulusFromUint64(35))
	// 2³ ⋅ 3² = 72 = 2 mod 35
	got := n.MulExp(natFromInt(2), natFromInt(3), natFromInt(3), natFromInt(2))
	assert.Equal(t, uint64(2), got.Big().Uint64())
}

func TestIsValidNatModN(t *testing.T) {
	n := saferith.ModulusFromUint64(35)
	assert.True(t, IsValidNatModN(n, natFromInt(1), natFromInt(34), natFromInt(2)))
	assert.False(t, IsValidNatModN(n, natFromInt(0)))
	assert.False(t, IsValidNatModN(n, natFromInt(7)), "not coprime")
	assert.False(t, IsValidNatModN(n, natFromInt(35)), "out of range")
	assert.False(t, IsValidNatModN(n, nil))
}

func TestIsInRange(t *testing.T) {
	bound := natFromInt(100)
	assert.True(t, IsInRange(bound, natFromInt(0), natFromInt(99)))
	assert.False(t, IsInRange(bound, natFromInt(100)))
	assert.False(t, IsInRange(bound, nil))
	assert.Equal(t, uint64(7*5+3), MulAdd(natFromInt(7), natFromInt(5), natFromInt(3)).Big().Uint64())
}
