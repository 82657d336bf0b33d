package collections

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
)

// FillVecMap is a fixed-size collection of optional values that tracks how many slots are set.
type FillVecMap[K, V any] struct {
	vec       []*V
	someCount int
}

// NewFillVecMap returns an empty FillVecMap with size slots.
func NewFillVecMap[K, V any](size int) FillVecMap[K, V] {
	return FillVecMap[K, V]{vec: make([]*V, size)}
}

// Len returns the number of slots.
func (f FillVecMap[K, V]) Len() int {
	return len(f.vec)
}

// SomeCount returns the number of filled slots.
func (f FillVecMap[K, V]) SomeCount() int {
	return f.someCount
}

// IsEmpty returns true when no slot is filled.
func (f FillVecMap[K, V]) IsEmpty() bool {
	return f.someCount == 0
}

// IsFull returns true when every slot is filled.
func (f FillVecMap[K, V]) IsFull() bool {
	return f.someCount == len(f.vec)
}

// Set fills the slot at index, overwriting any existing value.
func (f *FillVecMap[K, V]) Set(index TypedIndex[K], val V) error {
	if index.i < 0 || index.i >= len(f.vec) {
		return outOfBounds(index.i, len(f.vec))
	}
	if f.vec[index.i] == nil {
		f.someCount++
	}
	f.vec[index.i] = &val
	return nil
}

// SetWarn is like Set but logs a warning when overwriting.
func (f *FillVecMap[K, V]) SetWarn(index TypedIndex[K], val V) error {
	if index.i >= 0 && index.i < len(f.vec) && f.vec[index.i] != nil {
		log.Warn().Int("index", index.i).Msg("overwrite existing value")
	}
	return f.Set(index, val)
}

// Unset empties the slot at index.
func (f *FillVecMap[K, V]) Unset(index TypedIndex[K]) error {
	if index.i < 0 || index.i >= len(f.vec) {
		return outOfBounds(index.i, len(f.vec))
	}
	if f.vec[index.i] != nil {
		f.someCount--
	}
	f.vec[index.i] = nil
	return nil
}

// Get returns the value at index, and whether the slot is filled.
func (f FillVecMap[K, V]) Get(index TypedIndex[K]) (V, bool, error) {
	var zero V
	if index.i < 0 || index.i >= len(f.vec) {
		return zero, false, outOfBounds(index.i, len(f.vec))
	}
	if f.vec[index.i] == nil {
		return zero, false, nil
	}
	return *f.vec[index.i], true, nil
}

// IsNone returns true when the slot at index is empty.
func (f FillVecMap[K, V]) IsNone(index TypedIndex[K]) (bool, error) {
	if index.i < 0 || index.i >= len(f.vec) {
		return false, outOfBounds(index.i, len(f.vec))
	}
	return f.vec[index.i] == nil, nil
}

// All iterates over every slot. Empty slots yield nil.
func (f FillVecMap[K, V]) All() iter.Seq2[TypedIndex[K], *V] {
	return func(yield func(TypedIndex[K], *V) bool) {
		for i, v := range f.vec {
			if !yield(TypedIndex[K]{i: i}, v) {
				return
			}
		}
	}
}

// Some iterates over filled slots only.
func (f FillVecMap[K, V]) Some() iter.Seq2[TypedIndex[K], V] {
	return func(yield func(TypedIndex[K], V) bool) {
		for i, v := range f.vec {
			if v == nil {
				continue
			}
			if !yield(TypedIndex[K]{i: i}, *v) {
				return
			}
		}
	}
}

// UnwrapAll converts to a VecMap, failing with ErrNotFull if any slot is empty.
func (f FillVecMap[K, V]) UnwrapAll() (VecMap[K, V], error) {
	if !f.IsFull() {
		log.Error().Int("some", f.someCount).Int("size", len(f.vec)).Msg("unwrap of non-full fill vec map")
		return VecMap[K, V]{}, fmt.Errorf("%w: %d of %d", ErrNotFull, f.someCount, len(f.vec))
	}
	out := make([]V, len(f.vec))
	for i, v := range f.vec {
		out[i] = *v
	}
	return VecMap[K, V]{vec: out}, nil
}

// UnwrapOr converts to a VecMap, using def for empty slots.
func (f FillVecMap[K, V]) UnwrapOr(def V) VecMap[K, V] {
	out := make([]V, len(f.vec))
	for i, v := range f.vec {
		if v == nil {
			out[i] = def
		} else {
			out[i] = *v
		}
	}
	return VecMap[K, V]{vec: out}
}

// UnwrapAllMap is UnwrapAll followed by MapResult.
func UnwrapAllMap[K, V, W any](f FillVecMap[K, V], fn func(V) (W, error)) (VecMap[K, W], error) {
	full, err := f.UnwrapAll()
	if err != nil {
		return VecMap[K, W]{}, err
	}
	return MapResult(full, fn)
}

// AsSubset returns the set of filled indices.
func (f FillVecMap[K, V]) AsSubset() Subset[K] {
	s := NewSubset[K](len(f.vec))
	for i, v := range f.vec {
		if v != nil {
			s.members[i] = true
		}
	}
	return s
}
