package collections

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
)

// FillHoleVecMap is a FillVecMap with one index removed.
type FillHoleVecMap[K, V any] struct {
	vec  FillVecMap[K, V]
	hole TypedIndex[K]
}

// NewFillHoleVecMap returns an empty FillHoleVecMap of logical length size with the given hole.
func NewFillHoleVecMap[K, V any](size int, hole TypedIndex[K]) (FillHoleVecMap[K, V], error) {
	if hole.i < 0 || hole.i >= size {
		return FillHoleVecMap[K, V]{}, outOfBounds(hole.i, size)
	}
	return FillHoleVecMap[K, V]{vec: NewFillVecMap[K, V](size - 1), hole: hole}, nil
}

// Len returns the logical length, including the hole.
func (f FillHoleVecMap[K, V]) Len() int {
	return f.vec.Len() + 1
}

// Hole returns the missing index.
func (f FillHoleVecMap[K, V]) Hole() TypedIndex[K] {
	return f.hole
}

// SomeCount returns the number of filled slots.
func (f FillHoleVecMap[K, V]) SomeCount() int {
	return f.vec.SomeCount()
}

// IsFull returns true when every slot except the hole is filled.
func (f FillHoleVecMap[K, V]) IsFull() bool {
	return f.vec.IsFull()
}

// IsEmpty returns true when no slot is filled.
func (f FillHoleVecMap[K, V]) IsEmpty() bool {
	return f.vec.IsEmpty()
}

func (f FillHoleVecMap[K, V]) mapIndex(index TypedIndex[K]) (TypedIndex[K], error) {
	switch {
	case index.i < 0:
		return index, outOfBounds(index.i, f.Len())
	case index.i < f.hole.i:
		return index, nil
	case index.i == f.hole.i:
		log.Error().Int("index", index.i).Msg("attempt to index hole")
		return index, fmt.Errorf("%w: %d", ErrHole, index.i)
	case index.i < f.Len():
		return TypedIndex[K]{i: index.i - 1}, nil
	default:
		return index, outOfBounds(index.i, f.Len())
	}
}

// Set fills the slot at index.
func (f *FillHoleVecMap[K, V]) Set(index TypedIndex[K], val V) error {
	i, err := f.mapIndex(index)
	if err != nil {
		return err
	}
	return f.vec.Set(i, val)
}

// SetWarn is like Set but logs a warning when overwriting.
func (f *FillHoleVecMap[K, V]) SetWarn(index TypedIndex[K], val V) error {
	i, err := f.mapIndex(index)
	if err != nil {
		return err
	}
	return f.vec.SetWarn(i, val)
}

// Unset empties the slot at index.
func (f *FillHoleVecMap[K, V]) Unset(index TypedIndex[K]) error {
	i, err := f.mapIndex(index)
	if err != nil {
		return err
	}
	return f.vec.Unset(i)
}

// Get returns the value at index and whether it is set.
func (f FillHoleVecMap[K, V]) Get(index TypedIndex[K]) (V, bool, error) {
	i, err := f.mapIndex(index)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return f.vec.Get(i)
}

// IsNone returns true when the slot at index is empty.
func (f FillHoleVecMap[K, V]) IsNone(index TypedIndex[K]) (bool, error) {
	i, err := f.mapIndex(index)
	if err != nil {
		return false, err
	}
	return f.vec.IsNone(i)
}

// All iterates over every slot except the hole. Empty slots yield nil.
func (f FillHoleVecMap[K, V]) All() iter.Seq2[TypedIndex[K], *V] {
	return func(yield func(TypedIndex[K], *V) bool) {
		for i, v := range f.vec.vec {
			idx := i
			if i >= f.hole.i {
				idx++
			}
			if !yield(TypedIndex[K]{i: idx}, v) {
				return
			}
		}
	}
}

// MapToHoleVec converts to a HoleVecMap, failing with ErrNotFull if any slot is empty.
func (f FillHoleVecMap[K, V]) MapToHoleVec() (HoleVecMap[K, V], error) {
	full, err := f.vec.UnwrapAll()
	if err != nil {
		return HoleVecMap[K, V]{}, err
	}
	return HoleVecMap[K, V]{vec: full, hole: f.hole}, nil
}
