package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/axelarnetwork/tofn-sub002/internal/test"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/sign"
)

var sessionNonce = []byte("example session")

// partyKeys creates the long term keys of every party with safe primes, which takes a while.
func partyKeys(partyCount int, pl *pool.Pool) ([]*keygen.PartyKeyPair, []*keygen.PartyZkSetup, error) {
	keyPairs := make([]*keygen.PartyKeyPair, partyCount)
	zkSetups := make([]*keygen.PartyZkSetup, partyCount)
	for party := range keyPairs {
		srk := make([]byte, 64)
		if _, err := io.ReadFull(rand.Reader, srk); err != nil {
			return nil, nil, err
		}
		kp, zs, err := keygen.CreatePartyKeyPair(collections.FromInt[keygen.PartyID](party), srk, sessionNonce, pl)
		if err != nil {
			return nil, nil, fmt.Errorf("party %d: %w", party, err)
		}
		keyPairs[party], zkSetups[party] = kp, zs
	}
	return keyPairs, zkSetups, nil
}

// outputs returns the output of every share, or an error naming the faulters if any share failed.
func outputs[F, P any](dones []*protocol.Done[F, P]) ([]F, error) {
	out := make([]F, len(dones))
	for i, done := range dones {
		if done.Failed() {
			var faulters []int
			for p := range done.Faulters.Some() {
				faulters = append(faulters, p.Int())
			}
			return nil, fmt.Errorf("share %d: faulty parties %v", i, faulters)
		}
		out[i] = done.Output
	}
	return out, nil
}

func runKeygen(ctx context.Context, log zerolog.Logger, partyShareCounts []int, threshold int, pl *pool.Pool) ([]*keygen.SecretKeyShare, error) {
	psc, err := keygen.NewPartyShareCounts(partyShareCounts)
	if err != nil {
		return nil, err
	}
	log.Info().Int("parties", psc.PartyCount()).Msg("creating party keys")
	keyPairs, zkSetups, err := partyKeys(psc.PartyCount(), pl)
	if err != nil {
		return nil, err
	}

	owners, subshares := test.ShareOwners(partyShareCounts), test.Subshares(partyShareCounts)
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
			Logger:           log.With().Int("share", i).Logger(),
		})
		if err != nil {
			return nil, err
		}
	}

	dones, err := test.ExecuteConcurrentLogged(ctx, log, protocols)
	if err != nil {
		return nil, err
	}
	return outputs(dones)
}

func runSign(ctx context.Context, log zerolog.Logger, shares []*keygen.SecretKeyShare, parties []int, digest sign.MessageDigest, pl *pool.Pool) ([]byte, error) {
	group := shares[0].Group
	subset := collections.NewSubset[keygen.PartyID](group.PartyShareCounts.PartyCount())
	for _, p := range parties {
		if err := subset.Add(collections.FromInt[keygen.PartyID](p)); err != nil {
			return nil, err
		}
	}

	owners := test.ShareOwners(group.PartyShareCounts.Counts())
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
			Logger:         log.With().Int("share", i).Logger(),
		})
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, p)
	}

	dones, err := test.ExecuteConcurrentLogged(ctx, log, protocols)
	if err != nil {
		return nil, err
	}
	sigs, err := outputs(dones)
	if err != nil {
		return nil, err
	}
	return sigs[0], nil
}

func run(ctx context.Context, log zerolog.Logger, partyShareCounts []int, threshold int, parties []int, message []byte) error {
	pl := pool.NewPool(0)

	shares, err := runKeygen(ctx, log, partyShareCounts, threshold, pl)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	pub := shares[0].Group.Y.ToPublicKey()
	log.Info().Hex("pubkey", pub.SerializeCompressed()).Int("shares", len(shares)).Msg("keygen done")

	digest := sign.MessageDigest(blake3.Sum256(message))
	der, err := runSign(ctx, log, shares, parties, digest, pl)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}
	if !sig.Verify(digest[:], pub) {
		return fmt.Errorf("signature does not verify")
	}
	log.Info().Hex("digest", digest[:]).Hex("signature", der).Msg("sign done")
	return nil
}
