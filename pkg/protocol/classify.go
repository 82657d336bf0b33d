package protocol

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Classify assigns each sender a path tag from the shape of what it sent.
//
// classify receives the sender's bcast and p2p row, either of which may be nil, and returns the tag of
// the single legal path they match. A sender matching no legal path is faulted with ProtocolFault.
// If any sender is faulted the returned tags must not be used.
func Classify[K, B, P, T any](
	info *Info[K],
	bcastsIn collections.FillVecMap[K, B],
	p2psIn collections.P2ps[K, P],
	classify func(from collections.TypedIndex[K], bcast *B, p2ps *collections.HoleVecMap[K, P]) (T, bool),
) (collections.VecMap[K, T], collections.FillVecMap[K, Fault], error) {
	faulters := collections.NewFillVecMap[K, Fault](info.TotalShareCount())
	if bcastsIn.Len() != info.TotalShareCount() || p2psIn.Len() != info.TotalShareCount() {
		return collections.VecMap[K, T]{}, faulters, Fatalf(*info.Log(), "classify: %d bcasts and %d p2ps for %d shares", bcastsIn.Len(), p2psIn.Len(), info.TotalShareCount())
	}
	tags := make([]T, info.TotalShareCount())
	for from, bcast := range bcastsIn.All() {
		row, err := p2psIn.Get(from)
		if err != nil {
			return collections.VecMap[K, T]{}, faulters, err
		}
		tag, ok := classify(from, bcast, row)
		if !ok {
			info.Log().Warn().Int("faulter", from.Int()).Bool("bcast", bcast != nil).Bool("p2ps", row != nil).Msg("unexpected message shape")
			if err := faulters.Set(from, ProtocolFault); err != nil {
				return collections.VecMap[K, T]{}, faulters, err
			}
			continue
		}
		tags[from.Int()] = tag
	}
	return collections.NewVecMap[K](tags), faulters, nil
}
