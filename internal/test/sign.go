package test

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/sign"
)

// NewSigns starts signing digest for every share of the given keygen parties.
// shares must hold the key shares of every keygen share, in order.
func NewSigns(shares []*keygen.SecretKeyShare, parties []int, digest sign.MessageDigest, pl *pool.Pool) ([]sign.Protocol, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no key shares")
	}
	group := shares[0].Group
	subset := collections.NewSubset[keygen.PartyID](group.PartyShareCounts.PartyCount())
	for _, p := range parties {
		if err := subset.Add(collections.FromInt[keygen.PartyID](p)); err != nil {
			return nil, err
		}
	}

	owners := ShareOwners(group.PartyShareCounts.Counts())
	var protocols []sign.Protocol
	for i, share := range shares {
		if member, _ := subset.IsMember(collections.FromInt[keygen.PartyID](owners[i])); !member {
			continue
		}
		p, err := sign.New(sign.Config{
			SecretKeyShare: share,
			Parties:        subset,
			Digest:         digest,
			Pool:           pl,
			Logger:         zerolog.Nop(),
		})
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		protocols = append(protocols, p)
	}
	return protocols, nil
}
