package polynomial

import (
	"io"

	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ.
type Polynomial struct {
	coefficients []curve.Scalar
}

// NewPolynomial generates a Polynomial f(X) = secret + a₁⋅X + … + aₜ⋅Xᵗ,
// with coefficients in ℤₚ, and degree t.
func NewPolynomial(rand io.Reader, degree int, constant *curve.Scalar) *Polynomial {
	var polynomial Polynomial
	polynomial.coefficients = make([]curve.Scalar, degree+1)

	// if the constant is nil, we interpret it as 0.
	if constant == nil {
		constant = curve.NewScalar()
	}
	polynomial.coefficients[0] = *constant

	for i := 1; i <= degree; i++ {
		polynomial.coefficients[i] = *sample.Scalar(rand)
	}

	return &polynomial
}

// Evaluate evaluates a polynomial in a given variable index
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(index *curve.Scalar) *curve.Scalar {
	if index.IsZero() {
		panic("attempt to leak secret")
	}

	result := curve.NewScalar()
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.MultiplyAdd(result, index, &p.coefficients[i])
	}
	return result
}

// EvaluateAt evaluates the polynomial for the share with the given 0-based index, that is f(index+1).
func (p *Polynomial) EvaluateAt(index int) *curve.Scalar {
	return p.Evaluate(IndexScalar(index))
}

// Shares returns [f(1), …, f(n)].
func (p *Polynomial) Shares(n int) []*curve.Scalar {
	shares := make([]*curve.Scalar, n)
	for i := range shares {
		shares[i] = p.EvaluateAt(i)
	}
	return shares
}

// Constant returns a reference to the constant coefficient of the polynomial.
func (p *Polynomial) Constant() *curve.Scalar {
	return &p.coefficients[0]
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// IndexScalar maps a 0-based share index to its non-zero evaluation point index+1.
func IndexScalar(index int) *curve.Scalar {
	return curve.NewScalarUInt32(uint32(index) + 1)
}
