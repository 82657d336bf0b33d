// Package sign implements GG20 threshold ECDSA signing.
//
// A subset of the keygen parties holding more than threshold shares jointly signs a 32 byte
// digest. Rounds 1 to 3 run the MtA conversions of kᵢ⋅γⱼ and kᵢ⋅wⱼ, round 4 reveals Γᵢ,
// rounds 5 and 6 compute R and check it, and rounds 7 and 8 produce and combine the sᵢ.
// Proof failures lead to complaints that the next round adjudicates. Inconsistent values found
// after every proof verified lead to the "type 5" and "type 7" reveals, which identify the
// culprit by having every share open its secrets.
//
// The output is a DER encoded signature with a low s.
package sign

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
)

// ShareID marks indices of sign shares: the shares of the signing parties, in keygen order.
type ShareID struct{}

// PartyID marks indices of sign parties, the members of Config.Parties in increasing order.
type PartyID struct{}

type (
	// Protocol is a sign execution for one share. Its output is a DER encoded signature.
	Protocol = protocol.Protocol[[]byte, ShareID, PartyID]

	builder = protocol.ProtocolBuilder[[]byte, ShareID]
)

// MessageDigest is the 32 byte hash that gets signed.
type MessageDigest [32]byte

// Config holds everything a share needs to start signing.
type Config struct {
	SecretKeyShare *keygen.SecretKeyShare
	// Parties is the set of keygen parties taking part. Every share of every member signs.
	Parties collections.Subset[keygen.PartyID]
	Digest  MessageDigest

	// Rand defaults to crypto/rand.
	Rand io.Reader
	// Pool may be nil.
	Pool   *pool.Pool
	Logger zerolog.Logger

	// sigmaOffset is added to σᵢ before it is committed to, for tests only.
	sigmaOffset *curve.Scalar
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	if c.SecretKeyShare == nil {
		return fmt.Errorf("missing secret key share")
	}
	var result *multierror.Error
	group := &c.SecretKeyShare.Group
	psc := group.PartyShareCounts
	if c.Parties.MaxSize() != psc.PartyCount() {
		result = multierror.Append(result, fmt.Errorf("parties subset of size %d for %d keygen parties", c.Parties.MaxSize(), psc.PartyCount()))
		return result
	}
	if c.Parties.MemberCount() == 0 {
		result = multierror.Append(result, fmt.Errorf("no signing parties"))
	}
	myParty, err := protocol.ShareToPartyID[keygen.ShareID](psc, c.SecretKeyShare.Share.Index)
	if err != nil {
		result = multierror.Append(result, err)
	} else if member, err := c.Parties.IsMember(myParty); err != nil || !member {
		result = multierror.Append(result, fmt.Errorf("my party %d is not a signing party", myParty.Int()))
	}
	counts, err := psc.Subset(c.Parties)
	if err != nil {
		result = multierror.Append(result, err)
	} else {
		total := 0
		for _, count := range counts {
			total += count
		}
		if total <= group.Threshold {
			result = multierror.Append(result, fmt.Errorf("%d signing shares do not exceed threshold %d", total, group.Threshold))
		}
	}
	return result.ErrorOrNil()
}

// New starts signing c.Digest with the share c.SecretKeyShare.
func New(c Config) (Protocol, error) {
	if err := c.Validate(); err != nil {
		c.Logger.Error().Err(err).Msg("invalid sign config")
		return nil, fmt.Errorf("%w: sign: %w", protocol.ErrFatal, err)
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	group := &c.SecretKeyShare.Group

	counts, err := group.PartyShareCounts.Subset(c.Parties)
	if err != nil {
		return nil, err
	}
	psc, err := protocol.NewPartyShareCounts[PartyID](counts)
	if err != nil {
		return nil, err
	}
	keygenIDs, err := protocol.ShareIDSubset[keygen.ShareID](group.PartyShareCounts, c.Parties)
	if err != nil {
		return nil, err
	}
	me := -1
	for i, id := range keygenIDs {
		if id == c.SecretKeyShare.Share.Index {
			me = i
		}
	}
	if me < 0 {
		return nil, protocol.Fatalf(c.Logger, "sign: keygen share %d not found among signing shares", c.SecretKeyShare.Share.Index.Int())
	}
	signID := collections.FromInt[ShareID](me)
	logger := c.Logger.With().Str("protocol", "sign").Logger()

	first, err := start(&c, signID, collections.NewVecMap[ShareID](keygenIDs), logger)
	if err != nil {
		return nil, err
	}
	return protocol.New[[]byte, ShareID, PartyID](psc, signID, params.SignMaxMsgInLen, logger, first)
}
