package collections

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
)

// P2ps holds point-to-point messages indexed by sender then receiver.
// A sender that sent nothing has a nil row.
type P2ps[K, V any] struct {
	rows VecMap[K, *HoleVecMap[K, V]]
}

// NewP2ps builds a P2ps from per-sender rows. Row i must have hole i, or be nil.
func NewP2ps[K, V any](rows []*HoleVecMap[K, V]) (P2ps[K, V], error) {
	for i, row := range rows {
		if row == nil {
			continue
		}
		if row.hole.i != i || row.Len() != len(rows) {
			log.Error().Int("from", i).Int("hole", row.hole.i).Int("row_len", row.Len()).Int("size", len(rows)).Msg("malformed p2ps row")
			return P2ps[K, V]{}, fmt.Errorf("%w: row %d has hole %d and length %d", ErrSizeMismatch, i, row.hole.i, row.Len())
		}
	}
	return P2ps[K, V]{rows: NewVecMap[K](rows)}, nil
}

// NewP2psSize1Some returns a size-1 P2ps whose single sender has an empty row.
// It is used when there is only one share and hence no peer to message.
func NewP2psSize1Some[K, V any]() P2ps[K, V] {
	row := HoleVecMap[K, V]{vec: VecMap[K, V]{vec: []V{}}, hole: TypedIndex[K]{i: 0}}
	return P2ps[K, V]{rows: NewVecMap[K]([]*HoleVecMap[K, V]{&row})}
}

// Len returns the number of senders.
func (p P2ps[K, V]) Len() int {
	return p.rows.Len()
}

// Get returns the row sent by from, or nil if from sent nothing.
func (p P2ps[K, V]) Get(from TypedIndex[K]) (*HoleVecMap[K, V], error) {
	return p.rows.Get(from)
}

// All iterates over (sender, row) pairs. Rows may be nil.
func (p P2ps[K, V]) All() iter.Seq2[TypedIndex[K], *HoleVecMap[K, V]] {
	return p.rows.All()
}

// ToFullP2ps converts to a FullP2ps, failing if any row is nil.
func (p P2ps[K, V]) ToFullP2ps() (FullP2ps[K, V], error) {
	rows := make([]HoleVecMap[K, V], p.rows.Len())
	for from, row := range p.rows.All() {
		if row == nil {
			log.Error().Int("from", from.i).Msg("missing p2ps row")
			return FullP2ps[K, V]{}, fmt.Errorf("%w: missing row %d", ErrNotFull, from.i)
		}
		rows[from.i] = *row
	}
	return FullP2ps[K, V]{rows: NewVecMap[K](rows)}, nil
}

