package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

const (
	// MaxTotalShareCount bounds the number of shares in a protocol execution.
	MaxTotalShareCount = 1000
	// MaxPartyShareCount bounds the number of shares held by a single party.
	MaxPartyShareCount = MaxTotalShareCount
)

// PartyShareCounts records how many shares each party holds.
// Shares are numbered consecutively in party order.
type PartyShareCounts[P any] struct {
	counts collections.VecMap[P, int]
	total  int
}

// NewPartyShareCounts validates counts and returns the corresponding PartyShareCounts.
func NewPartyShareCounts[P any](counts []int) (PartyShareCounts[P], error) {
	total := 0
	for i, c := range counts {
		if c < 0 || c > MaxPartyShareCount {
			return PartyShareCounts[P]{}, Fatalf(log.Logger, "party %d share count %d outside [0, %d]", i, c, MaxPartyShareCount)
		}
		total += c
	}
	if total > MaxTotalShareCount {
		return PartyShareCounts[P]{}, Fatalf(log.Logger, "total share count %d exceeds maximum %d", total, MaxTotalShareCount)
	}
	return PartyShareCounts[P]{counts: collections.NewVecMap[P](append([]int(nil), counts...)), total: total}, nil
}

// TotalShareCount returns the sum of all share counts.
func (p PartyShareCounts[P]) TotalShareCount() int {
	return p.total
}

// PartyCount returns the number of parties.
func (p PartyShareCounts[P]) PartyCount() int {
	return p.counts.Len()
}

// PartyShareCount returns the number of shares held by party.
func (p PartyShareCounts[P]) PartyShareCount(party collections.TypedIndex[P]) (int, error) {
	return p.counts.Get(party)
}

// Counts returns the share count of every party in party order.
func (p PartyShareCounts[P]) Counts() []int {
	return append([]int(nil), p.counts.Values()...)
}

// Subset returns the share counts of the parties in parties, in party order.
func (p PartyShareCounts[P]) Subset(parties collections.Subset[P]) ([]int, error) {
	if err := p.checkSubset(parties); err != nil {
		return nil, err
	}
	out := make([]int, 0, parties.MemberCount())
	for party := range parties.Members() {
		c, err := p.counts.Get(party)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (p PartyShareCounts[P]) checkSubset(parties collections.Subset[P]) error {
	if parties.MaxSize() != p.PartyCount() {
		return Fatalf(log.Logger, "party subset max size %d disagrees with party count %d", parties.MaxSize(), p.PartyCount())
	}
	return nil
}

// ShareToPartySubshareIDs returns the party owning share, together with the position of share among that party's shares.
func ShareToPartySubshareIDs[K, P any](p PartyShareCounts[P], share collections.TypedIndex[K]) (collections.TypedIndex[P], int, error) {
	sum := 0
	for party, c := range p.counts.All() {
		sum += c
		if share.Int() >= 0 && share.Int() < sum {
			return party, share.Int() - (sum - c), nil
		}
	}
	return collections.TypedIndex[P]{}, 0, Fatalf(log.Logger, "share id %d out of bounds %d", share.Int(), p.total)
}

// ShareToPartyID returns the party owning share.
func ShareToPartyID[K, P any](p PartyShareCounts[P], share collections.TypedIndex[K]) (collections.TypedIndex[P], error) {
	party, _, err := ShareToPartySubshareIDs[K](p, share)
	return party, err
}

// PartyToShareID returns the share id of the subshare-th share of party.
func PartyToShareID[K, P any](p PartyShareCounts[P], party collections.TypedIndex[P], subshare int) (collections.TypedIndex[K], error) {
	sum := 0
	for q, c := range p.counts.All() {
		if q == party {
			if subshare < 0 || subshare >= c {
				return collections.TypedIndex[K]{}, Fatalf(log.Logger, "subshare id %d exceeds party share count %d", subshare, c)
			}
			return collections.FromInt[K](sum + subshare), nil
		}
		sum += c
	}
	return collections.TypedIndex[K]{}, Fatalf(log.Logger, "party id %d exceeds party count %d", party.Int(), p.PartyCount())
}

// PartyToShareIDs returns every share id held by party.
func PartyToShareIDs[K, P any](p PartyShareCounts[P], party collections.TypedIndex[P]) ([]collections.TypedIndex[K], error) {
	c, err := p.counts.Get(party)
	if err != nil {
		return nil, err
	}
	out := make([]collections.TypedIndex[K], 0, c)
	for j := 0; j < c; j++ {
		id, err := PartyToShareID[K](p, party, j)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ShareIDSubset expands a subset of parties into the share ids they hold, in increasing order.
func ShareIDSubset[K, P any](p PartyShareCounts[P], parties collections.Subset[P]) ([]collections.TypedIndex[K], error) {
	if err := p.checkSubset(parties); err != nil {
		return nil, err
	}
	var out []collections.TypedIndex[K]
	sum := 0
	for party, c := range p.counts.All() {
		member, err := parties.IsMember(party)
		if err != nil {
			return nil, err
		}
		if member {
			for j := 0; j < c; j++ {
				out = append(out, collections.FromInt[K](sum+j))
			}
		}
		sum += c
	}
	return out, nil
}

// ShareToPartyFaults aggregates share faults into party faults.
// When several shares of one party fault, the fault of the highest share id is kept.
func ShareToPartyFaults[K, P any](p PartyShareCounts[P], shareFaults collections.FillVecMap[K, Fault]) (collections.FillVecMap[P, Fault], error) {
	out := collections.NewFillVecMap[P, Fault](p.PartyCount())
	for share, fault := range shareFaults.Some() {
		party, err := ShareToPartyID[K](p, share)
		if err != nil {
			return collections.FillVecMap[P, Fault]{}, err
		}
		if err := out.Set(party, fault); err != nil {
			return collections.FillVecMap[P, Fault]{}, err
		}
	}
	return out, nil
}

// MarshalCBOR encodes the share counts as an array.
func (p PartyShareCounts[P]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(p.Counts())
}

// UnmarshalCBOR implements cbor.Unmarshaler and re-validates the counts.
func (p *PartyShareCounts[P]) UnmarshalCBOR(data []byte) error {
	var counts []int
	if err := cbor.Unmarshal(data, &counts); err != nil {
		return err
	}
	decoded, err := NewPartyShareCounts[P](counts)
	if err != nil {
		return fmt.Errorf("protocol: decode party share counts: %w", err)
	}
	*p = decoded
	return nil
}
