package curve

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomScalar(t *testing.T) *Scalar {
	t.Helper()
	var buf [32]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	return NewScalar().SetHash(buf[:])
}

func TestScalarArithmetic(t *testing.T) {
	x, y, z := randomScalar(t), randomScalar(t), randomScalar(t)

	sum := NewScalar().Add(x, y)
	assert.True(t, NewScalar().Subtract(sum, y).Equal(x))

	neg := NewScalar().Negate(x)
	assert.True(t, NewScalar().Add(x, neg).IsZero())

	prod := NewScalar().Multiply(x, y)
	assert.True(t, NewScalar().MultiplyAdd(x, y, z).Equal(NewScalar().Add(prod, z)))

	inv := NewScalar().Invert(x)
	assert.True(t, NewScalar().Multiply(x, inv).Equal(NewScalarUInt32(1)))
	assert.True(t, NewScalar().Invert(NewScalar()).IsZero())
}

func TestScalarNat(t *testing.T) {
	x := randomScalar(t)
	assert.True(t, NewScalar().SetNat(x.Nat()).Equal(x))

	// q + 5 reduces to 5
	n := new(saferith.Nat).Add(Order().Nat(), new(saferith.Nat).SetUint64(5), -1)
	assert.True(t, NewScalar().SetNat(n).Equal(NewScalarUInt32(5)))
}

func TestScalarMarshal(t *testing.T) {
	x := randomScalar(t)
	data, err := x.MarshalBinary()
	require.NoError(t, err)
	y := NewScalar()
	require.NoError(t, y.UnmarshalBinary(data))
	assert.True(t, x.Equal(y))

	assert.Error(t, y.UnmarshalBinary(data[:31]))
	assert.Error(t, y.UnmarshalBinary(bytes.Repeat([]byte{0xff}, 32)), "non canonical")
}

func TestPointArithmetic(t *testing.T) {
	x, y := randomScalar(t), randomScalar(t)
	X, Y := x.ActOnBase(), y.ActOnBase()

	sum := NewIdentityPoint().Add(X, Y)
	assert.True(t, sum.Equal(NewScalar().Add(x, y).ActOnBase()))
	assert.True(t, NewIdentityPoint().Subtract(sum, Y).Equal(X))
	assert.True(t, NewIdentityPoint().Add(X, NewIdentityPoint().Negate(X)).IsIdentity())
	assert.True(t, NewIdentityPoint().ScalarMult(y, X).Equal(NewScalar().Multiply(x, y).ActOnBase()))
	assert.True(t, NewIdentityPoint().Add(X, NewIdentityPoint()).Equal(X))
	assert.True(t, NewBasePoint().Equal(NewScalarUInt32(1).ActOnBase()))
	assert.False(t, X.Equal(Y))
}

func TestPointMarshal(t *testing.T) {
	X := randomScalar(t).ActOnBase()
	data, err := X.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 33)

	Y := NewIdentityPoint()
	require.NoError(t, Y.UnmarshalBinary(data))
	assert.True(t, X.Equal(Y))

	_, err = NewIdentityPoint().MarshalBinary()
	assert.Error(t, err)

	bad := bytes.Clone(data)
	bad[0] = 0x04
	assert.Error(t, Y.UnmarshalBinary(bad))
	assert.Error(t, Y.UnmarshalBinary(data[:32]))
}

func TestPointWriteTo(t *testing.T) {
	X := randomScalar(t).ActOnBase()
	var buf bytes.Buffer
	n, err := X.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 33, n)
	data, _ := X.MarshalBinary()
	assert.Equal(t, data, buf.Bytes())

	buf.Reset()
	_, err = NewIdentityPoint().WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 33), buf.Bytes())
}

func TestAlternateGenerator(t *testing.T) {
	H := AlternateGenerator()
	assert.False(t, H.IsIdentity())
	assert.False(t, H.Equal(NewBasePoint()))
	assert.True(t, H.Equal(AlternateGenerator()))
}
