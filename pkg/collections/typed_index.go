package collections

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
)

var (
	// ErrOutOfBounds is returned when an index does not address a valid slot.
	ErrOutOfBounds = errors.New("collections: index out of bounds")
	// ErrHole is returned when a HoleVecMap is indexed at its hole.
	ErrHole = errors.New("collections: attempt to index hole")
	// ErrNotFull is returned when a conversion requires every slot to be filled.
	ErrNotFull = errors.New("collections: not full")
	// ErrSizeMismatch is returned when two collections are expected to have the same size.
	ErrSizeMismatch = errors.New("collections: size mismatch")
)

// TypedIndex is an index into a collection keyed by the marker type K.
//
// Indices with different markers cannot be mixed even though both are plain integers at runtime.
// There is no arithmetic on a TypedIndex; valid indices are obtained by iterating a collection.
type TypedIndex[K any] struct {
	i int
}

// FromInt returns the TypedIndex for n.
func FromInt[K any](n int) TypedIndex[K] {
	return TypedIndex[K]{i: n}
}

// Int returns the underlying integer.
func (t TypedIndex[K]) Int() int {
	return t.i
}

// Less reports whether t is ordered before u.
func (t TypedIndex[K]) Less(u TypedIndex[K]) bool {
	return t.i < u.i
}

// String implements fmt.Stringer.
func (t TypedIndex[K]) String() string {
	return fmt.Sprintf("%d", t.i)
}

// MarshalCBOR encodes the index as a plain unsigned integer.
func (t TypedIndex[K]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(uint64(t.i))
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (t *TypedIndex[K]) UnmarshalCBOR(data []byte) error {
	var n uint64
	if err := cbor.Unmarshal(data, &n); err != nil {
		return err
	}
	if n > maxIndex {
		return fmt.Errorf("typed index %d too large", n)
	}
	t.i = int(n)
	return nil
}

// maxIndex bounds decoded indices so that untrusted input cannot overflow int.
const maxIndex = 1 << 31

func outOfBounds(i, size int) error {
	log.Error().Int("index", i).Int("size", size).Msg("index out of bounds")
	return fmt.Errorf("%w: index %d, size %d", ErrOutOfBounds, i, size)
}
