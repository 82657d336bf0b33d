package collections

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
)

// VecMap is a slice addressed only by TypedIndex[K].
type VecMap[K, V any] struct {
	vec []V
}

// NewVecMap takes ownership of vec.
func NewVecMap[K, V any](vec []V) VecMap[K, V] {
	return VecMap[K, V]{vec: vec}
}

// Get returns the element at index.
func (v VecMap[K, V]) Get(index TypedIndex[K]) (V, error) {
	if index.i < 0 || index.i >= len(v.vec) {
		var zero V
		return zero, outOfBounds(index.i, len(v.vec))
	}
	return v.vec[index.i], nil
}

// GetMut returns a pointer to the element at index.
func (v VecMap[K, V]) GetMut(index TypedIndex[K]) (*V, error) {
	if index.i < 0 || index.i >= len(v.vec) {
		return nil, outOfBounds(index.i, len(v.vec))
	}
	return &v.vec[index.i], nil
}

// Len returns the number of elements.
func (v VecMap[K, V]) Len() int {
	return len(v.vec)
}

// IsEmpty returns true when v has no elements.
func (v VecMap[K, V]) IsEmpty() bool {
	return len(v.vec) == 0
}

// Values returns the underlying slice in index order.
func (v VecMap[K, V]) Values() []V {
	return v.vec
}

// All iterates over (index, value) pairs in index order.
func (v VecMap[K, V]) All() iter.Seq2[TypedIndex[K], V] {
	return func(yield func(TypedIndex[K], V) bool) {
		for i, val := range v.vec {
			if !yield(TypedIndex[K]{i: i}, val) {
				return
			}
		}
	}
}

// Indices iterates over every valid index.
func (v VecMap[K, V]) Indices() iter.Seq[TypedIndex[K]] {
	return func(yield func(TypedIndex[K]) bool) {
		for i := range v.vec {
			if !yield(TypedIndex[K]{i: i}) {
				return
			}
		}
	}
}

// PunctureHole removes the element at hole, returning the remaining elements
// as a HoleVecMap together with the removed element.
func (v VecMap[K, V]) PunctureHole(hole TypedIndex[K]) (HoleVecMap[K, V], V, error) {
	if hole.i < 0 || hole.i >= len(v.vec) {
		var zero V
		return HoleVecMap[K, V]{}, zero, outOfBounds(hole.i, len(v.vec))
	}
	removed := v.vec[hole.i]
	rest := make([]V, 0, len(v.vec)-1)
	rest = append(rest, v.vec[:hole.i]...)
	rest = append(rest, v.vec[hole.i+1:]...)
	return HoleVecMap[K, V]{vec: VecMap[K, V]{vec: rest}, hole: hole}, removed, nil
}

// RememberHole treats v as already excluding hole.
func (v VecMap[K, V]) RememberHole(hole TypedIndex[K]) (HoleVecMap[K, V], error) {
	if hole.i < 0 || hole.i > len(v.vec) {
		log.Error().Int("hole", hole.i).Int("size", len(v.vec)).Msg("hole out of bounds")
		return HoleVecMap[K, V]{}, fmt.Errorf("%w: hole %d, size %d", ErrOutOfBounds, hole.i, len(v.vec))
	}
	return HoleVecMap[K, V]{vec: v, hole: hole}, nil
}

// Map returns a new VecMap with f applied to each element.
func Map[K, V, W any](v VecMap[K, V], f func(V) W) VecMap[K, W] {
	out := make([]W, len(v.vec))
	for i, val := range v.vec {
		out[i] = f(val)
	}
	return VecMap[K, W]{vec: out}
}

// MapResult is like Map but stops at the first error.
func MapResult[K, V, W any](v VecMap[K, V], f func(V) (W, error)) (VecMap[K, W], error) {
	out := make([]W, len(v.vec))
	for i, val := range v.vec {
		w, err := f(val)
		if err != nil {
			return VecMap[K, W]{}, err
		}
		out[i] = w
	}
	return VecMap[K, W]{vec: out}, nil
}

// Map2Result is like MapResult but f also receives the index.
func Map2Result[K, V, W any](v VecMap[K, V], f func(TypedIndex[K], V) (W, error)) (VecMap[K, W], error) {
	out := make([]W, len(v.vec))
	for i, val := range v.vec {
		w, err := f(TypedIndex[K]{i: i}, val)
		if err != nil {
			return VecMap[K, W]{}, err
		}
		out[i] = w
	}
	return VecMap[K, W]{vec: out}, nil
}

// Zip2 iterates over two VecMaps of equal length.
func Zip2[K, V, W any](a VecMap[K, V], b VecMap[K, W]) (iter.Seq2[TypedIndex[K], Pair[V, W]], error) {
	if a.Len() != b.Len() {
		log.Error().Int("a", a.Len()).Int("b", b.Len()).Msg("zip of different lengths")
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, a.Len(), b.Len())
	}
	return func(yield func(TypedIndex[K], Pair[V, W]) bool) {
		for i := range a.vec {
			if !yield(TypedIndex[K]{i: i}, Pair[V, W]{First: a.vec[i], Second: b.vec[i]}) {
				return
			}
		}
	}, nil
}

// Pair is yielded by Zip2.
type Pair[V, W any] struct {
	First  V
	Second W
}
