package collections

import (
	"iter"
	"strings"
)

// Subset is a set of indices drawn from a universe of fixed size.
type Subset[K any] struct {
	members []bool
}

// NewSubset returns an empty subset of a universe of maxSize indices.
func NewSubset[K any](maxSize int) Subset[K] {
	return Subset[K]{members: make([]bool, maxSize)}
}

// Add inserts index into the subset. Adding an existing member is a no-op.
func (s Subset[K]) Add(index TypedIndex[K]) error {
	if index.i < 0 || index.i >= len(s.members) {
		return outOfBounds(index.i, len(s.members))
	}
	s.members[index.i] = true
	return nil
}

// IsMember reports whether index belongs to the subset.
func (s Subset[K]) IsMember(index TypedIndex[K]) (bool, error) {
	if index.i < 0 || index.i >= len(s.members) {
		return false, outOfBounds(index.i, len(s.members))
	}
	return s.members[index.i], nil
}

// Members iterates over member indices in increasing order.
func (s Subset[K]) Members() iter.Seq[TypedIndex[K]] {
	return func(yield func(TypedIndex[K]) bool) {
		for i, ok := range s.members {
			if ok && !yield(TypedIndex[K]{i: i}) {
				return
			}
		}
	}
}

// MemberCount returns the number of members.
func (s Subset[K]) MemberCount() int {
	n := 0
	for _, ok := range s.members {
		if ok {
			n++
		}
	}
	return n
}

// MaxSize returns the size of the universe.
func (s Subset[K]) MaxSize() int {
	return len(s.members)
}

// String implements fmt.Stringer.
func (s Subset[K]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i := range s.Members() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(i.String())
	}
	b.WriteByte('}')
	return b.String()
}
