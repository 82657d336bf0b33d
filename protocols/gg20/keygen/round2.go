package keygen

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/polynomial"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	zkmod "github.com/axelarnetwork/tofn-sub002/pkg/zk/mod"
	zkprm "github.com/axelarnetwork/tofn-sub002/pkg/zk/prm"
)

type round2 struct {
	*round1
}

type bcast2 struct {
	YIReveal hash.Decommitment
	// Uᵢ(X) = uᵢ(X)⋅G
	UIVssCommit *polynomial.Exponent
}

type p2p2 struct {
	// Enc_j(uᵢ(j+1))
	UIShareCiphertext *paillier.Ciphertext
}

// Execute checks every peer's encryption key and zk setup, then sends each peer its share of uᵢ.
func (r *round2) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast1]) (builder, error) {
	me := info.MyID()

	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	for from, bcast := range bcastsIn.All() {
		if from == me {
			continue
		}
		party, err := protocol.ShareToPartyID[ShareID](r.psc, from)
		if err != nil {
			return nil, err
		}
		if fault := checkKeys(bcast, from, party, r.pool); fault != "" {
			info.LogFault(from, fault)
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[*SecretKeyShare](faulters), nil
	}

	// uᵢ(j+1) for every share j
	shares, myShare, err := collections.NewVecMap[ShareID](r.poly.Shares(info.TotalShareCount())).PunctureHole(me)
	if err != nil {
		return nil, err
	}
	p2ps, err := collections.MapHoleResult(shares, func(to collections.TypedIndex[ShareID], share *curve.Scalar) ([]byte, error) {
		peer, err := bcastsIn.Get(to)
		if err != nil {
			return nil, err
		}
		ct, _ := peer.EK.Enc(r.rand, share.Nat())
		return protocol.Serialize(p2p2{UIShareCiphertext: ct})
	})
	if err != nil {
		return nil, err
	}

	bcast, err := protocol.Serialize(bcast2{
		YIReveal:    r.yIReveal,
		UIVssCommit: polynomial.NewPolynomialExponent(r.poly),
	})
	if err != nil {
		return nil, err
	}

	return protocol.NewBcastAndP2p[*SecretKeyShare, ShareID, bcast2, p2p2](&round3{
		round2:   r,
		r1Bcasts: bcastsIn,
		myShare:  myShare,
	}, bcast, p2ps), nil
}

// checkKeys returns a description of the first problem with the keys broadcast by share from, if any.
func checkKeys(bcast bcast1, from collections.TypedIndex[ShareID], party collections.TypedIndex[PartyID], pl *pool.Pool) string {
	if bcast.EK == nil || bcast.ZkSetup == nil {
		return "missing keys"
	}
	if err := paillier.ValidateN(bcast.EK.N()); err != nil {
		return "invalid encryption key: " + err.Error()
	}
	if !bcast.EKProof.Verify(ekProofHash(from), zkmod.Public{N: bcast.EK.N()}, pl) {
		return "encryption key proof"
	}
	if err := pedersen.ValidateParameters(bcast.ZkSetup.N(), bcast.ZkSetup.S(), bcast.ZkSetup.T()); err != nil {
		return "invalid zk setup: " + err.Error()
	}
	if !bcast.ZkSetupProof.Verify(zkSetupHash(party), zkprm.Public{Aux: bcast.ZkSetup}, pl) {
		return "zk setup proof"
	}
	return ""
}
