package test

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/polynomial"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
)

// SessionNonce is the session nonce used by test executions.
var SessionNonce = []byte("tofn test session")

// PartyKeys creates unsafe key pairs and zk setups for every party, from a random secret recovery key each.
func PartyKeys(partyCount int, source io.Reader) ([]*keygen.PartyKeyPair, []*keygen.PartyZkSetup, error) {
	keyPairs := make([]*keygen.PartyKeyPair, partyCount)
	zkSetups := make([]*keygen.PartyZkSetup, partyCount)
	for party := range keyPairs {
		srk := make([]byte, 64)
		if _, err := io.ReadFull(source, srk); err != nil {
			return nil, nil, err
		}
		kp, zs, err := keygen.CreatePartyKeyPairUnsafe(collections.FromInt[keygen.PartyID](party), srk, SessionNonce)
		if err != nil {
			return nil, nil, err
		}
		keyPairs[party], zkSetups[party] = kp, zs
	}
	return keyPairs, zkSetups, nil
}

// NewKeygens starts keygen for every share of every party.
func NewKeygens(partyShareCounts []int, threshold int, pl *pool.Pool) ([]keygen.Protocol, error) {
	psc, err := keygen.NewPartyShareCounts(partyShareCounts)
	if err != nil {
		return nil, err
	}
	keyPairs, zkSetups, err := PartyKeys(len(partyShareCounts), rand.Reader)
	if err != nil {
		return nil, err
	}
	owners, subshares := ShareOwners(partyShareCounts), Subshares(partyShareCounts)
	protocols := make([]keygen.Protocol, len(owners))
	for i := range protocols {
		party := owners[i]
		protocols[i], err = keygen.New(keygen.Config{
			PartyShareCounts: psc,
			Threshold:        threshold,
			Party:            collections.FromInt[keygen.PartyID](party),
			Subshare:         subshares[i],
			KeyPair:          keyPairs[party],
			ZkSetup:          zkSetups[party],
			Pool:             pl,
			Logger:           zerolog.Nop(),
		})
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
	}
	return protocols, nil
}

// GenerateKeyShares creates secret key shares of a random key, as a trusted dealer would.
// It is much faster than running keygen and produces the same kind of output.
func GenerateKeyShares(partyShareCounts []int, threshold int, source io.Reader) ([]*keygen.SecretKeyShare, error) {
	psc, err := keygen.NewPartyShareCounts(partyShareCounts)
	if err != nil {
		return nil, err
	}
	keyPairs, zkSetups, err := PartyKeys(len(partyShareCounts), source)
	if err != nil {
		return nil, err
	}
	owners := ShareOwners(partyShareCounts)

	f := polynomial.NewPolynomial(source, threshold, sample.Scalar(source))
	secrets := f.Shares(len(owners))
	public := make([]keygen.SharePublicInfo, len(owners))
	for i, x := range secrets {
		party := owners[i]
		public[i] = keygen.SharePublicInfo{
			X:       x.ActOnBase(),
			EK:      keyPairs[party].EK,
			ZkSetup: zkSetups[party].ZkSetup,
		}
	}
	group := keygen.GroupPublicInfo{
		PartyShareCounts: psc,
		Threshold:        threshold,
		Y:                f.Constant().ActOnBase(),
		AllShares:        collections.NewVecMap[keygen.ShareID](public),
	}

	shares := make([]*keygen.SecretKeyShare, len(owners))
	for i, x := range secrets {
		shares[i] = &keygen.SecretKeyShare{
			Group: group,
			Share: keygen.ShareSecretInfo{
				Index: collections.FromInt[keygen.ShareID](i),
				DK:    keyPairs[owners[i]].DK,
				X:     curve.NewScalar().Set(x),
			},
		}
	}
	return shares, nil
}
