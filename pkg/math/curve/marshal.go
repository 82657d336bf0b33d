package curve

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	data := make([]byte, params.BytesScalar)
	s.s.PutBytesUnchecked(data)
	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Only canonical encodings are accepted.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	var scalar secp256k1.ModNScalar
	if len(data) != params.BytesScalar {
		return fmt.Errorf("curve.Scalar.Unmarshal: expected %d bytes, got %d", params.BytesScalar, len(data))
	}
	if scalar.SetByteSlice(data) {
		return errors.New("curve.Scalar.Unmarshal: scalar was >= q")
	}
	s.s.Set(&scalar)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v *Point) MarshalBinary() ([]byte, error) {
	if v == nil {
		return nil, errors.New("curve.Point.Marshal: point is nil")
	}
	if v.IsIdentity() {
		return nil, errors.New("curve.Point.Marshal: tries to marshal identity")
	}
	data := make([]byte, params.BytesPoint)
	v.compress(data)
	return data, nil
}

// compress writes 0x02 or 0x03 ∥ 32-byte x coordinate into data.
func (v *Point) compress(data []byte) {
	a := v.affine()
	format := secp256k1.PubKeyFormatCompressedEven
	if a.Y.IsOdd() {
		format = secp256k1.PubKeyFormatCompressedOdd
	}
	data[0] = format
	a.X.PutBytesUnchecked(data[1:33])
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Point) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesPoint {
		return fmt.Errorf("curve.Point.Unmarshal: expected %d bytes, got %d", params.BytesPoint, len(data))
	}
	format := data[0]
	if !(format == secp256k1.PubKeyFormatCompressedOdd || format == secp256k1.PubKeyFormatCompressedEven) {
		return errors.New("curve.Point.Unmarshal: incorrect format")
	}

	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(data[1:33]); overflow {
		return errors.New("curve.Point.Unmarshal: invalid point: x >= field prime")
	}
	wantOddY := format == secp256k1.PubKeyFormatCompressedOdd
	if !secp256k1.DecompressY(&x, wantOddY, &y) {
		return errors.New("curve.Point.Unmarshal: invalid point: x coordinate is not on the secp256k1 curve")
	}
	y.Normalize()
	v.p.X.Set(&x)
	v.p.Y.Set(&y)
	v.p.Z.SetInt(1)
	return nil
}

// String implements fmt.Stringer.
func (v *Point) String() string {
	if v == nil {
		return "nil"
	}
	if v.IsIdentity() {
		return "Point{Identity}"
	}
	data, _ := v.MarshalBinary()
	return fmt.Sprintf("Point{%x}", data)
}

// String implements fmt.Stringer.
func (s *Scalar) String() string {
	if s == nil {
		return "nil"
	}
	return s.s.String()
}
