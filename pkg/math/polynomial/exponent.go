package polynomial

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
)

var ErrEmptyExponent = errors.New("polynomial: exponent has no coefficients")

// Exponent represents a polynomial whose coefficients are points on an elliptic curve.
// It is the public commitment to a Polynomial in Feldman VSS.
type Exponent struct {
	coefficients []*curve.Point
}

// NewPolynomialExponent generates a Exponent polynomial F(X) = [secret + a1*X + ... + at*X^t]•G,
// with coefficients in G, and degree t.
func NewPolynomialExponent(polynomial *Polynomial) *Exponent {
	var p Exponent

	p.coefficients = make([]*curve.Point, len(polynomial.coefficients))
	for i := range p.coefficients {
		p.coefficients[i] = polynomial.coefficients[i].ActOnBase()
	}

	return &p
}

// Evaluate uses Horner's method to compute F(index).
func (p *Exponent) Evaluate(index *curve.Scalar) *curve.Point {
	result := curve.NewIdentityPoint()

	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// B_n-1 = [x]B_n  + A_n-1
		result.ScalarMult(index, result)
		result.Add(result, p.coefficients[i])
	}
	return result
}

// EvaluateAt returns F(index+1), the public counterpart of Polynomial.EvaluateAt.
func (p *Exponent) EvaluateAt(index int) *curve.Point {
	return p.Evaluate(IndexScalar(index))
}

func (p *Exponent) Degree() int {
	return len(p.coefficients) - 1
}

func (p *Exponent) add(q *Exponent) error {
	if len(p.coefficients) != len(q.coefficients) {
		return errors.New("q is not the same length as p")
	}

	for i := 0; i < len(p.coefficients); i++ {
		p.coefficients[i].Add(p.coefficients[i], q.coefficients[i])
	}

	return nil
}

// Sum creates a new Polynomial in the Exponent, by summing a slice of existing ones.
func Sum(polynomials []*Exponent) (*Exponent, error) {
	if len(polynomials) == 0 {
		return nil, ErrEmptyExponent
	}

	// Create the new polynomial by copying the first one given
	summed := polynomials[0].Copy()

	// we assume all polynomials have the same degree as the first
	for j := 1; j < len(polynomials); j++ {
		if err := summed.add(polynomials[j]); err != nil {
			return nil, err
		}
	}
	return summed, nil
}

func (p *Exponent) Copy() *Exponent {
	var q Exponent
	q.coefficients = make([]*curve.Point, len(p.coefficients))
	for i := 0; i < len(p.coefficients); i++ {
		q.coefficients[i] = curve.NewIdentityPoint().Set(p.coefficients[i])
	}
	return &q
}

func (p *Exponent) Equal(other *Exponent) bool {
	if len(p.coefficients) != len(other.coefficients) {
		return false
	}
	for i := 0; i < len(p.coefficients); i++ {
		if !p.coefficients[i].Equal(other.coefficients[i]) {
			return false
		}
	}
	return true
}

// Constant returns the constant coefficient of the polynomial 'in the exponent'
func (p *Exponent) Constant() *curve.Point {
	return p.coefficients[0]
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Exponent) WriteTo(w io.Writer) (int64, error) {
	var n int64
	degree := uint32(len(p.coefficients))

	// write the number of coefficients
	err := binary.Write(w, binary.BigEndian, degree)
	if err != nil {
		return 0, err
	}
	nAll := int64(4)

	// write all coefficients
	for _, c := range p.coefficients {
		n, err = c.WriteTo(w)
		nAll += n
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain.
func (*Exponent) Domain() string {
	return "Exponent"
}

func (p *Exponent) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(p.coefficients)
}

// UnmarshalBinary rejects empty polynomials and identity coefficients.
func (p *Exponent) UnmarshalBinary(data []byte) error {
	var coefficients []*curve.Point
	if err := cbor.Unmarshal(data, &coefficients); err != nil {
		return err
	}
	if len(coefficients) == 0 {
		return ErrEmptyExponent
	}
	p.coefficients = coefficients
	return nil
}
