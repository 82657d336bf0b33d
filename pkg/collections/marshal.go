package collections

import (
	"github.com/fxamacker/cbor/v2"
)

// MarshalCBOR encodes v as a plain array.
func (v VecMap[K, V]) MarshalCBOR() ([]byte, error) {
	if v.vec == nil {
		return cbor.Marshal([]V{})
	}
	return cbor.Marshal(v.vec)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *VecMap[K, V]) UnmarshalCBOR(data []byte) error {
	var vec []V
	if err := cbor.Unmarshal(data, &vec); err != nil {
		return err
	}
	v.vec = vec
	return nil
}

type holeVecMapCBOR[K, V any] struct {
	_    struct{} `cbor:",toarray"`
	Vec  []V
	Hole TypedIndex[K]
}

// MarshalCBOR encodes h as [elements, hole].
func (h HoleVecMap[K, V]) MarshalCBOR() ([]byte, error) {
	vec := h.vec.vec
	if vec == nil {
		vec = []V{}
	}
	return cbor.Marshal(holeVecMapCBOR[K, V]{Vec: vec, Hole: h.hole})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
// The hole must lie within the decoded length.
func (h *HoleVecMap[K, V]) UnmarshalCBOR(data []byte) error {
	var raw holeVecMapCBOR[K, V]
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	hv, err := NewVecMap[K](raw.Vec).RememberHole(raw.Hole)
	if err != nil {
		return err
	}
	*h = hv
	return nil
}

// MarshalCBOR encodes the membership flags of s.
func (s Subset[K]) MarshalCBOR() ([]byte, error) {
	if s.members == nil {
		return cbor.Marshal([]bool{})
	}
	return cbor.Marshal(s.members)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *Subset[K]) UnmarshalCBOR(data []byte) error {
	var members []bool
	if err := cbor.Unmarshal(data, &members); err != nil {
		return err
	}
	s.members = members
	return nil
}
