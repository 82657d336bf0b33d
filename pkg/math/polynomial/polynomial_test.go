package polynomial

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
)

func TestPolynomial_Constant(t *testing.T) {
	deg := 10
	secret := sample.Scalar(rand.Reader)
	poly := NewPolynomial(rand.Reader, deg, secret)
	require.True(t, poly.Constant().Equal(secret))
	assert.Equal(t, deg, poly.Degree())
	assert.Len(t, poly.Shares(5), 5)
}

func TestExponent_Evaluate(t *testing.T) {
	for x := 0; x < 5; x++ {
		var secret *curve.Scalar
		if x%2 == 0 {
			secret = sample.Scalar(rand.Reader)
		}
		poly := NewPolynomial(rand.Reader, 20, secret)
		polyExp := NewPolynomialExponent(poly)

		randomIndex := sample.Scalar(rand.Reader)

		lhs := poly.Evaluate(randomIndex).ActOnBase()
		rhs := polyExp.Evaluate(randomIndex)
		assert.True(t, lhs.Equal(rhs), fmt.Sprint("base eval differs from exponent eval ", x))
		assert.True(t, poly.EvaluateAt(x).ActOnBase().Equal(polyExp.EvaluateAt(x)))
	}
}

func TestSum(t *testing.T) {
	N := 20
	Deg := 10

	randomIndex := sample.Scalar(rand.Reader)

	// compute f1(x) + f2(x) + …
	evaluationScalar := curve.NewScalar()

	// compute F1(x) + F2(x) + …
	evaluationPartial := curve.NewIdentityPoint()

	polysExp := make([]*Exponent, N)
	for i := range polysExp {
		poly := NewPolynomial(rand.Reader, Deg, sample.Scalar(rand.Reader))
		polysExp[i] = NewPolynomialExponent(poly)

		evaluationScalar.Add(evaluationScalar, poly.Evaluate(randomIndex))
		evaluationPartial.Add(evaluationPartial, polysExp[i].Evaluate(randomIndex))
	}

	// compute (F1 + F2 + …)(x)
	summedExp, err := Sum(polysExp)
	require.NoError(t, err)
	evaluationSum := summedExp.Evaluate(randomIndex)

	assert.True(t, evaluationSum.Equal(evaluationScalar.ActOnBase()))
	assert.True(t, evaluationSum.Equal(evaluationPartial))

	_, err = Sum(nil)
	assert.ErrorIs(t, err, ErrEmptyExponent)
}

func TestExponent_Marshal(t *testing.T) {
	polyExp := NewPolynomialExponent(NewPolynomial(rand.Reader, 5, sample.Scalar(rand.Reader)))

	data, err := cbor.Marshal(polyExp)
	require.NoError(t, err)
	var decoded Exponent
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, polyExp.Equal(&decoded))

	empty, err := cbor.Marshal([]*curve.Point{})
	require.NoError(t, err)
	assert.ErrorIs(t, decoded.UnmarshalBinary(empty), ErrEmptyExponent)
}
