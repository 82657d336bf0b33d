package curve

import (
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an element of the secp256k1 group.
// The zero value is the identity.
type Point struct {
	p secp256k1.JacobianPoint
}

// NewIdentityPoint returns the identity.
func NewIdentityPoint() *Point {
	return &Point{}
}

// NewBasePoint returns a point initialized to the base point G.
func NewBasePoint() *Point {
	var v Point
	var one secp256k1.ModNScalar
	one.SetInt(1)
	secp256k1.ScalarBaseMultNonConst(&one, &v.p)
	v.p.ToAffine()
	return &v
}

// Set sets v = u, and returns v.
func (v *Point) Set(u *Point) *Point {
	v.p.Set(&u.p)
	return v
}

// Add sets v = p + q, and returns v.
func (v *Point) Add(p, q *Point) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.p, &q.p, &r)
	v.p = r
	return v
}

// Subtract sets v = p - q, and returns v.
func (v *Point) Subtract(p, q *Point) *Point {
	var qNeg Point
	qNeg.Negate(q)
	return v.Add(p, &qNeg)
}

// Negate sets v = -p, and returns v.
func (v *Point) Negate(p *Point) *Point {
	r := p.affine()
	r.Y.Negate(1)
	r.Y.Normalize()
	v.p = r
	return v
}

// ScalarBaseMult sets v = x⋅G, and returns v.
func (v *Point) ScalarBaseMult(x *Scalar) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&x.s, &r)
	v.p = r
	return v
}

// ScalarMult sets v = x⋅q, and returns v.
func (v *Point) ScalarMult(x *Scalar, q *Point) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&x.s, &q.p, &r)
	v.p = r
	return v
}

// Equal returns true if v and u represent the same group element.
func (v *Point) Equal(u *Point) bool {
	if v.IsIdentity() || u.IsIdentity() {
		return v.IsIdentity() && u.IsIdentity()
	}
	a, b := v.affine(), u.affine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// IsIdentity returns true if the point is ∞.
func (v *Point) IsIdentity() bool {
	return (v.p.X.IsZero() && v.p.Y.IsZero()) || v.p.Z.IsZero()
}

// XScalar returns the x coordinate of v reduced mod q.
func (v *Point) XScalar() *Scalar {
	var s Scalar
	a := v.affine()
	s.s.SetBytes(a.X.Bytes())
	return &s
}

// ToPublicKey returns v as a secp256k1 public key.
func (v *Point) ToPublicKey() *secp256k1.PublicKey {
	a := v.affine()
	return secp256k1.NewPublicKey(&a.X, &a.Y)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
// It writes the compressed point, or 33 zero bytes for the identity.
func (v *Point) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 33)
	if !v.IsIdentity() {
		v.compress(buf)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Point) Domain() string {
	return "Point"
}

// affine returns an affine copy of v, leaving v untouched so that points may be read concurrently.
func (v *Point) affine() secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	r.Set(&v.p)
	if !r.Z.IsOne() {
		r.ToAffine()
	}
	r.X.Normalize()
	r.Y.Normalize()
	return r
}
