package sample

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		require.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= n")
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		assert.Equal(t, saferith.Choice(1), UnitModN(rand.Reader, n).IsUnit(n))
	}
}

func TestBelow(t *testing.T) {
	bound := new(saferith.Nat).SetUint64(1000)
	seen := map[uint64]bool{}
	for i := 0; i < 2000; i++ {
		x := Below(rand.Reader, bound)
		v := x.Big().Uint64()
		require.Less(t, v, uint64(1000))
		seen[v] = true
	}
	assert.Greater(t, len(seen), 500)
}

func TestQNR(t *testing.T) {
	n := saferith.ModulusFromUint64(7 * 11)
	w := QNR(rand.Reader, n)
	assert.Equal(t, -1, big.Jacobi(w.Big(), n.Big()))
}

func TestScalarDeterministic(t *testing.T) {
	a := Scalar(mrand.New(mrand.NewSource(1)))
	b := Scalar(mrand.New(mrand.NewSource(1)))
	assert.True(t, a.Equal(b))
	assert.False(t, a.IsZero())
}

func TestBlumPrime(t *testing.T) {
	p := BlumPrime(rand.Reader).Big()
	assert.True(t, p.ProbablyPrime(blumPrimalityIterations))
	assert.Equal(t, uint(3), p.Bit(0)+2*p.Bit(1), "p = 3 mod 4")
	assert.Equal(t, params.BitsBlumPrime, p.BitLen())
}

func TestSafePrime(t *testing.T) {
	if testing.Short() {
		t.Skip("safe prime generation is slow")
	}
	p, q := Paillier(rand.Reader, nil)
	for _, x := range []*saferith.Nat{p, q} {
		pBig := x.Big()
		assert.True(t, pBig.ProbablyPrime(blumPrimalityIterations))
		half := new(big.Int).Rsh(pBig, 1)
		assert.True(t, half.ProbablyPrime(blumPrimalityIterations), "(p - 1) / 2 must be prime")
	}
}
