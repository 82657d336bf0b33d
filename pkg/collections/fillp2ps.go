package collections

import (
	"iter"
)

// FillP2ps accumulates point-to-point messages as they arrive.
type FillP2ps[K, V any] struct {
	rows []FillHoleVecMap[K, V]
}

// NewFillP2ps returns an empty FillP2ps for size parties.
func NewFillP2ps[K, V any](size int) FillP2ps[K, V] {
	rows := make([]FillHoleVecMap[K, V], size)
	for i := range rows {
		rows[i] = FillHoleVecMap[K, V]{vec: NewFillVecMap[K, V](size - 1), hole: TypedIndex[K]{i: i}}
	}
	return FillP2ps[K, V]{rows: rows}
}

// Len returns the number of parties.
func (p FillP2ps[K, V]) Len() int {
	return len(p.rows)
}

func (p FillP2ps[K, V]) row(from TypedIndex[K]) (*FillHoleVecMap[K, V], error) {
	if from.i < 0 || from.i >= len(p.rows) {
		return nil, outOfBounds(from.i, len(p.rows))
	}
	return &p.rows[from.i], nil
}

// Set stores the message sent by from to to.
func (p *FillP2ps[K, V]) Set(from, to TypedIndex[K], val V) error {
	row, err := p.row(from)
	if err != nil {
		return err
	}
	return row.Set(to, val)
}

// SetWarn is like Set but logs a warning when overwriting.
func (p *FillP2ps[K, V]) SetWarn(from, to TypedIndex[K], val V) error {
	row, err := p.row(from)
	if err != nil {
		return err
	}
	return row.SetWarn(to, val)
}

// Unset removes the message sent by from to to.
func (p *FillP2ps[K, V]) Unset(from, to TypedIndex[K]) error {
	row, err := p.row(from)
	if err != nil {
		return err
	}
	return row.Unset(to)
}

// UnsetAll removes every message sent by from.
func (p *FillP2ps[K, V]) UnsetAll(from TypedIndex[K]) error {
	row, err := p.row(from)
	if err != nil {
		return err
	}
	row.vec = NewFillVecMap[K, V](row.vec.Len())
	return nil
}

// Get returns the message sent by from to to and whether it is set.
func (p FillP2ps[K, V]) Get(from, to TypedIndex[K]) (V, bool, error) {
	row, err := p.row(from)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return row.Get(to)
}

// IsNone returns true when no message from from to to has been stored.
func (p FillP2ps[K, V]) IsNone(from, to TypedIndex[K]) (bool, error) {
	row, err := p.row(from)
	if err != nil {
		return false, err
	}
	return row.IsNone(to)
}

// IsFull returns true when every sender has sent to every receiver.
func (p FillP2ps[K, V]) IsFull() bool {
	for i := range p.rows {
		if !p.rows[i].IsFull() {
			return false
		}
	}
	return true
}

// IsFullFrom returns true when from has sent to every receiver.
func (p FillP2ps[K, V]) IsFullFrom(from TypedIndex[K]) (bool, error) {
	row, err := p.row(from)
	if err != nil {
		return false, err
	}
	return row.IsFull(), nil
}

// AllFrom iterates over the messages sent by from. Missing messages yield nil.
func (p FillP2ps[K, V]) AllFrom(from TypedIndex[K]) (iter.Seq2[TypedIndex[K], *V], error) {
	row, err := p.row(from)
	if err != nil {
		return nil, err
	}
	return row.All(), nil
}

// MapToP2ps converts to P2ps. Empty rows become nil; a partially filled row is an error.
func MapToP2ps[K, V, W any](p FillP2ps[K, V], f func(V) (W, error)) (P2ps[K, W], error) {
	rows := make([]*HoleVecMap[K, W], len(p.rows))
	for i := range p.rows {
		if p.rows[i].IsEmpty() {
			continue
		}
		full, err := p.rows[i].MapToHoleVec()
		if err != nil {
			return P2ps[K, W]{}, err
		}
		mapped, err := MapHoleResult(full, func(_ TypedIndex[K], v V) (W, error) { return f(v) })
		if err != nil {
			return P2ps[K, W]{}, err
		}
		rows[i] = &mapped
	}
	return P2ps[K, W]{rows: NewVecMap[K](rows)}, nil
}

// ToP2ps is MapToP2ps with the identity function.
func (p FillP2ps[K, V]) ToP2ps() (P2ps[K, V], error) {
	return MapToP2ps(p, func(v V) (V, error) { return v, nil })
}
