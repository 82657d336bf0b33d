// Package keygen implements the GG20 distributed key generation.
//
// Every share samples a VSS polynomial, commits to its constant term and sends each peer
// its Paillier-encrypted evaluation. Shares that receive an invalid evaluation complain in
// round 3, and round 4 adjudicates the complaints. The output is a SecretKeyShare.
package keygen

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

// ShareID marks indices of keygen shares.
type ShareID struct{}

// PartyID marks indices of keygen parties.
type PartyID struct{}

type (
	// Protocol is a keygen execution for one share.
	Protocol = protocol.Protocol[*SecretKeyShare, ShareID, PartyID]
	// PartyShareCounts records the number of shares held by each keygen party.
	PartyShareCounts = protocol.PartyShareCounts[PartyID]

	builder = protocol.ProtocolBuilder[*SecretKeyShare, ShareID]
)

// NewPartyShareCounts returns the PartyShareCounts of keygen parties holding counts shares each.
func NewPartyShareCounts(counts []int) (PartyShareCounts, error) {
	return protocol.NewPartyShareCounts[PartyID](counts)
}

// Config holds everything a share needs to start keygen.
type Config struct {
	PartyShareCounts PartyShareCounts
	// Threshold is the maximum number of shares that may be corrupted.
	// Threshold+1 shares are needed to sign.
	Threshold int

	// Party and Subshare locate this share: it is the Subshare-th share of Party.
	Party    collections.TypedIndex[PartyID]
	Subshare int

	// KeyPair and ZkSetup are created once per party with CreatePartyKeyPair.
	KeyPair *PartyKeyPair
	ZkSetup *PartyZkSetup

	// Rand defaults to crypto/rand.
	Rand io.Reader
	// Pool parallelizes proof generation and verification. It may be nil.
	Pool   *pool.Pool
	Logger zerolog.Logger
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var result *multierror.Error
	total := c.PartyShareCounts.TotalShareCount()
	for i, count := range c.PartyShareCounts.Counts() {
		if count > protocol.MaxPartyShareCount {
			result = multierror.Append(result, fmt.Errorf("party %d share count %d exceeds %d", i, count, protocol.MaxPartyShareCount))
		}
	}
	if total <= c.Threshold {
		result = multierror.Append(result, fmt.Errorf("total share count %d must exceed threshold %d", total, c.Threshold))
	}
	if c.Threshold < 0 {
		result = multierror.Append(result, fmt.Errorf("negative threshold %d", c.Threshold))
	}
	if total > protocol.MaxTotalShareCount {
		result = multierror.Append(result, fmt.Errorf("total share count %d exceeds %d", total, protocol.MaxTotalShareCount))
	}
	if c.Party.Int() < 0 || c.Party.Int() >= c.PartyShareCounts.PartyCount() {
		result = multierror.Append(result, fmt.Errorf("party %d out of range for %d parties", c.Party.Int(), c.PartyShareCounts.PartyCount()))
	} else if count, err := c.PartyShareCounts.PartyShareCount(c.Party); err != nil || c.Subshare < 0 || c.Subshare >= count {
		result = multierror.Append(result, fmt.Errorf("subshare %d out of range for party %d", c.Subshare, c.Party.Int()))
	}
	if c.KeyPair == nil || c.KeyPair.EK == nil || c.KeyPair.DK == nil {
		result = multierror.Append(result, fmt.Errorf("missing party key pair"))
	}
	if c.ZkSetup == nil || c.ZkSetup.ZkSetup == nil || c.ZkSetup.Proof == nil {
		result = multierror.Append(result, fmt.Errorf("missing party zk setup"))
	}
	return result.ErrorOrNil()
}

// New starts keygen for the share described by c.
func New(c Config) (Protocol, error) {
	if err := c.Validate(); err != nil {
		c.Logger.Error().Err(err).Msg("invalid keygen config")
		return nil, fmt.Errorf("%w: keygen: %w", protocol.ErrFatal, err)
	}
	me, err := protocol.PartyToShareID[ShareID](c.PartyShareCounts, c.Party, c.Subshare)
	if err != nil {
		return nil, err
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	logger := c.Logger.With().Str("protocol", "keygen").Logger()

	first, err := start(&c, me)
	if err != nil {
		return nil, err
	}
	return protocol.New[*SecretKeyShare, ShareID, PartyID](c.PartyShareCounts, me, params.KeygenMaxMsgInLen, logger, first)
}
