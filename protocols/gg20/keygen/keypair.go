package keygen

import (
	"fmt"
	"io"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/internal/rng"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkprm "github.com/axelarnetwork/tofn-sub002/pkg/zk/prm"
)

// PartyKeyPair is the Paillier key pair shared by all the shares of a party.
type PartyKeyPair struct {
	EK *paillier.PublicKey
	DK *paillier.SecretKey
}

// PartyZkSetup holds the ring-Pedersen parameters peers use when proving statements to this party,
// together with a proof that they are well formed.
type PartyZkSetup struct {
	ZkSetup *pedersen.Parameters
	Proof   *zkprm.Proof
}

// CreatePartyKeyPair deterministically derives the key pair and zk setup of party from
// secretRecoveryKey and sessionNonce. The primes are safe primes, which takes a while.
func CreatePartyKeyPair(party collections.TypedIndex[PartyID], secretRecoveryKey, sessionNonce []byte, pl *pool.Pool) (*PartyKeyPair, *PartyZkSetup, error) {
	return createPartyKeyPair(party, secretRecoveryKey, sessionNonce, func(r io.Reader) (*paillier.PublicKey, *paillier.SecretKey) {
		return paillier.KeyGen(r, pl)
	}, pl)
}

// CreatePartyKeyPairUnsafe is like CreatePartyKeyPair but skips the safe prime property.
// It must only be used in tests.
func CreatePartyKeyPairUnsafe(party collections.TypedIndex[PartyID], secretRecoveryKey, sessionNonce []byte) (*PartyKeyPair, *PartyZkSetup, error) {
	return createPartyKeyPair(party, secretRecoveryKey, sessionNonce, paillier.KeyGenUnsafe, nil)
}

func createPartyKeyPair(
	party collections.TypedIndex[PartyID],
	secretRecoveryKey, sessionNonce []byte,
	keyGen func(io.Reader) (*paillier.PublicKey, *paillier.SecretKey),
	pl *pool.Pool,
) (*PartyKeyPair, *PartyZkSetup, error) {
	keyPairRand, err := rng.New(params.RNGKeyPair, party.Int(), secretRecoveryKey, sessionNonce)
	if err != nil {
		return nil, nil, fmt.Errorf("keygen: key pair: %w", err)
	}
	ek, dk := keyGen(keyPairRand)

	zkSetupRand, err := rng.New(params.RNGZkSetup, party.Int(), secretRecoveryKey, sessionNonce)
	if err != nil {
		return nil, nil, fmt.Errorf("keygen: zk setup: %w", err)
	}
	_, pedersenSecret := keyGen(zkSetupRand)
	ped, lambda := pedersenSecret.GeneratePedersen(zkSetupRand)
	proof := zkprm.NewProof(zkSetupRand, zkSetupHash(party),
		zkprm.Private{Lambda: lambda, Phi: pedersenSecret.Phi()},
		zkprm.Public{Aux: ped}, pl)

	return &PartyKeyPair{EK: ek, DK: dk}, &PartyZkSetup{ZkSetup: ped, Proof: proof}, nil
}

func zkSetupHash(party collections.TypedIndex[PartyID]) *hash.Hash {
	return zk.NewBcastHash(params.TagCompositeDlogProof, party.Int())
}

func ekProofHash(share collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewBcastHash(params.TagPaillierKeyProof, share.Int())
}
