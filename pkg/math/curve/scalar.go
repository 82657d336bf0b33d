package curve

import (
	"encoding/hex"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an integer modulo the order q of the secp256k1 group.
type Scalar struct {
	s secp256k1.ModNScalar
}

var order *saferith.Modulus

func init() {
	q, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	order = saferith.ModulusFromBytes(q)
}

// Order returns q, the order of the secp256k1 group.
func Order() *saferith.Modulus {
	return order
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarUInt32 returns a new Scalar set to n.
func NewScalarUInt32(n uint32) *Scalar {
	var s Scalar
	s.s.SetInt(n)
	return &s
}

// MultiplyAdd sets s = x * y + z mod q, and returns s.
func (s *Scalar) MultiplyAdd(x, y, z *Scalar) *Scalar {
	var r secp256k1.ModNScalar
	r.Mul2(&x.s, &y.s).Add(&z.s)
	s.s.Set(&r)
	return s
}

// Add sets s = x + y mod q, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.s.Add2(&x.s, &y.s)
	return s
}

// Subtract sets s = x - y mod q, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	var yNeg secp256k1.ModNScalar
	yNeg.NegateVal(&y.s)
	s.s.Add2(&x.s, &yNeg)
	return s
}

// Negate sets s = -x mod q, and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	s.s.NegateVal(&x.s)
	return s
}

// Multiply sets s = x * y mod q, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	s.s.Mul2(&x.s, &y.s)
	return s
}

// Invert sets s = x⁻¹ mod q, and returns s.
// The inverse of 0 is 0.
func (s *Scalar) Invert(x *Scalar) *Scalar {
	s.s.InverseValNonConst(&x.s)
	return s
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	s.s.Set(&x.s)
	return s
}

// SetUInt32 sets s = n, and returns s.
func (s *Scalar) SetUInt32(n uint32) *Scalar {
	s.s.SetInt(n)
	return s
}

// SetNat sets s = x mod q, and returns s.
func (s *Scalar) SetNat(x *saferith.Nat) *Scalar {
	var buf [32]byte
	reduced := new(saferith.Nat).Mod(x, order)
	reduced.FillBytes(buf[:])
	s.s.SetBytes(&buf)
	return s
}

// SetHash interprets a 32 byte digest as a big-endian integer and reduces it mod q.
func (s *Scalar) SetHash(digest []byte) *Scalar {
	var buf [32]byte
	copy(buf[:], digest)
	s.s.SetBytes(&buf)
	return s
}

// Nat returns s as a saferith.Nat.
func (s *Scalar) Nat() *saferith.Nat {
	b := s.s.Bytes()
	return new(saferith.Nat).SetBytes(b[:])
}

// Bytes returns the canonical 32 bytes big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.s.Bytes()
	return b[:]
}

// Equal returns true if s and t are equal.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.s.Equals(&t.s)
}

// IsZero returns true if s = 0.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero()
}

// IsOverHalfOrder returns true if s > q/2.
func (s *Scalar) IsOverHalfOrder() bool {
	return s.s.IsOverHalfOrder()
}

// ActOnBase returns s⋅G.
func (s *Scalar) ActOnBase() *Point {
	return NewIdentityPoint().ScalarBaseMult(s)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (s *Scalar) WriteTo(w io.Writer) (int64, error) {
	b := s.s.Bytes()
	n, err := w.Write(b[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Scalar) Domain() string {
	return "Scalar"
}

// ModNScalar returns a copy of s as a secp256k1.ModNScalar.
func (s *Scalar) ModNScalar() secp256k1.ModNScalar {
	return s.s
}
