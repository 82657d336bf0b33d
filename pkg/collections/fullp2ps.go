package collections

import (
	"iter"
)

// FullP2ps holds a point-to-point message for every ordered pair of distinct parties.
type FullP2ps[K, V any] struct {
	rows VecMap[K, HoleVecMap[K, V]]
}

// Len returns the number of senders.
func (p FullP2ps[K, V]) Len() int {
	return p.rows.Len()
}

// Get returns the message sent by from to to.
func (p FullP2ps[K, V]) Get(from, to TypedIndex[K]) (V, error) {
	row, err := p.rows.Get(from)
	if err != nil {
		var zero V
		return zero, err
	}
	return row.Get(to)
}

// Row returns every message sent by from.
func (p FullP2ps[K, V]) Row(from TypedIndex[K]) (HoleVecMap[K, V], error) {
	return p.rows.Get(from)
}

// All iterates over every (from, to, value) triple with from != to.
func (p FullP2ps[K, V]) All() iter.Seq2[FromTo[K], V] {
	return func(yield func(FromTo[K], V) bool) {
		for from, row := range p.rows.All() {
			for to, v := range row.All() {
				if !yield(FromTo[K]{From: from, To: to}, v) {
					return
				}
			}
		}
	}
}

// ToMe iterates over the messages addressed to me, keyed by sender.
func (p FullP2ps[K, V]) ToMe(me TypedIndex[K]) (iter.Seq2[TypedIndex[K], V], error) {
	if me.i < 0 || me.i >= p.rows.Len() {
		return nil, outOfBounds(me.i, p.rows.Len())
	}
	return func(yield func(TypedIndex[K], V) bool) {
		for from, row := range p.rows.All() {
			if from == me {
				continue
			}
			v, _ := row.Get(me)
			if !yield(from, v) {
				return
			}
		}
	}, nil
}

// MapToMe collects the messages addressed to me into a HoleVecMap with hole me.
func MapToMe[K, V, W any](p FullP2ps[K, V], me TypedIndex[K], f func(V) W) (HoleVecMap[K, W], error) {
	toMe, err := p.ToMe(me)
	if err != nil {
		return HoleVecMap[K, W]{}, err
	}
	out := make([]W, 0, p.Len()-1)
	for _, v := range toMe {
		out = append(out, f(v))
	}
	return HoleVecMap[K, W]{vec: VecMap[K, W]{vec: out}, hole: me}, nil
}

// FromTo identifies a point-to-point message.
type FromTo[K any] struct {
	From, To TypedIndex[K]
}

