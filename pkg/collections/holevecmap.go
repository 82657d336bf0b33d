package collections

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
)

// HoleVecMap is a VecMap with one index removed.
// Its logical length is one more than the number of stored elements.
type HoleVecMap[K, V any] struct {
	vec  VecMap[K, V]
	hole TypedIndex[K]
}

// Hole returns the missing index.
func (h HoleVecMap[K, V]) Hole() TypedIndex[K] {
	return h.hole
}

// Len returns the logical length, including the hole.
func (h HoleVecMap[K, V]) Len() int {
	return h.vec.Len() + 1
}

// Get returns the element at index. Indexing the hole fails with ErrHole.
func (h HoleVecMap[K, V]) Get(index TypedIndex[K]) (V, error) {
	i, err := h.mapIndex(index)
	if err != nil {
		var zero V
		return zero, err
	}
	return h.vec.vec[i], nil
}

// GetMut returns a pointer to the element at index.
func (h HoleVecMap[K, V]) GetMut(index TypedIndex[K]) (*V, error) {
	i, err := h.mapIndex(index)
	if err != nil {
		return nil, err
	}
	return &h.vec.vec[i], nil
}

func (h HoleVecMap[K, V]) mapIndex(index TypedIndex[K]) (int, error) {
	switch {
	case index.i < 0:
		return 0, outOfBounds(index.i, h.Len())
	case index.i < h.hole.i:
		return index.i, nil
	case index.i == h.hole.i:
		log.Error().Int("index", index.i).Msg("attempt to index hole")
		return 0, fmt.Errorf("%w: %d", ErrHole, index.i)
	case index.i <= h.vec.Len():
		return index.i - 1, nil
	default:
		return 0, outOfBounds(index.i, h.Len())
	}
}

// PlugHole reinserts val at the hole and returns the full VecMap.
func (h HoleVecMap[K, V]) PlugHole(val V) VecMap[K, V] {
	out := make([]V, 0, h.Len())
	out = append(out, h.vec.vec[:h.hole.i]...)
	out = append(out, val)
	out = append(out, h.vec.vec[h.hole.i:]...)
	return VecMap[K, V]{vec: out}
}

// All iterates over (index, value) pairs, skipping the hole.
func (h HoleVecMap[K, V]) All() iter.Seq2[TypedIndex[K], V] {
	return func(yield func(TypedIndex[K], V) bool) {
		for i, val := range h.vec.vec {
			idx := i
			if i >= h.hole.i {
				idx++
			}
			if !yield(TypedIndex[K]{i: idx}, val) {
				return
			}
		}
	}
}

// Values returns the stored elements in index order, without the hole.
func (h HoleVecMap[K, V]) Values() []V {
	return h.vec.vec
}

// MapHole returns a new HoleVecMap with f applied to each element.
func MapHole[K, V, W any](h HoleVecMap[K, V], f func(V) W) HoleVecMap[K, W] {
	return HoleVecMap[K, W]{vec: Map(h.vec, f), hole: h.hole}
}

// MapHoleResult is like MapHole but stops at the first error.
// f receives the logical index of each element.
func MapHoleResult[K, V, W any](h HoleVecMap[K, V], f func(TypedIndex[K], V) (W, error)) (HoleVecMap[K, W], error) {
	out := make([]W, 0, h.vec.Len())
	for i, val := range h.All() {
		w, err := f(i, val)
		if err != nil {
			return HoleVecMap[K, W]{}, err
		}
		out = append(out, w)
	}
	return HoleVecMap[K, W]{vec: VecMap[K, W]{vec: out}, hole: h.hole}, nil
}

// MapHole2Result applies f to the paired elements of two HoleVecMaps with the same hole.
func MapHole2Result[K, V, W, X any](a HoleVecMap[K, V], b HoleVecMap[K, W], f func(TypedIndex[K], V, W) (X, error)) (HoleVecMap[K, X], error) {
	if a.hole != b.hole || a.vec.Len() != b.vec.Len() {
		log.Error().Int("hole_a", a.hole.i).Int("hole_b", b.hole.i).Int("len_a", a.Len()).Int("len_b", b.Len()).Msg("hole vec map mismatch")
		return HoleVecMap[K, X]{}, fmt.Errorf("%w: hole %d len %d vs hole %d len %d", ErrSizeMismatch, a.hole.i, a.Len(), b.hole.i, b.Len())
	}
	out := make([]X, 0, a.vec.Len())
	for i, val := range a.All() {
		w, _ := b.Get(i)
		x, err := f(i, val, w)
		if err != nil {
			return HoleVecMap[K, X]{}, err
		}
		out = append(out, x)
	}
	return HoleVecMap[K, X]{vec: VecMap[K, X]{vec: out}, hole: a.hole}, nil
}
