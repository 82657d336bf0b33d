package sign

import (
	"github.com/axelarnetwork/tofn-sub002/internal/mta"
	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkaffg "github.com/axelarnetwork/tofn-sub002/pkg/zk/affg"
	zkenc "github.com/axelarnetwork/tofn-sub002/pkg/zk/enc"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
)

type round2 struct {
	*round1
}

// bcast2 carries exactly one of Happy or Sad. Happy shares also send a p2p2 to every peer.
type bcast2 struct {
	Happy *struct{}  `cbor:",omitempty"`
	Sad   *bcast2Sad `cbor:",omitempty"`
}

type bcast2Sad struct {
	// shares whose range proof failed
	ZkpComplaints collections.Subset[ShareID]
}

type p2p2 struct {
	// Dᵢⱼ = γᵢ⊙Kⱼ ⊕ Encⱼ(β'ᵢⱼ)
	AlphaCiphertext *paillier.Ciphertext
	AlphaProof      *zkaffg.Proof
	// Encⱼ(kⱼ⋅wᵢ + ν'ᵢⱼ)
	MuCiphertext *paillier.Ciphertext
	MuProof      *zkaffg.Proof
}

type mtaResponses struct {
	p2p      p2p2
	beta, nu mta.Secret
}

func mtaProofHash(prover, verifier collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewHash(params.TagMtaProof, prover.Int(), verifier.Int())
}

func mtaProofWcHash(prover, verifier collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewHash(params.TagMtaProofWc, prover.Int(), verifier.Int())
}

// Execute checks the range proofs of every Kⱼ and answers with the MtA responses for γᵢ and wᵢ.
// If a proof fails it complains instead.
func (r *round2) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast1], p2psIn collections.FullP2ps[ShareID, p2p1]) (builder, error) {
	me := info.MyID()
	mine, err := r.public(me)
	if err != nil {
		return nil, err
	}

	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	for from, bcast := range bcastsIn.All() {
		peer, err := r.public(from)
		if err != nil {
			return nil, err
		}
		if len(bcast.GammaICommit) == 0 || !peer.EK.ValidateCiphertexts(bcast.KICiphertext) {
			info.LogFault(from, "invalid k_i ciphertext or Gamma_i commitment")
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	complaints := collections.NewSubset[ShareID](info.TotalShareCount())
	toMe, err := p2psIn.ToMe(me)
	if err != nil {
		return nil, err
	}
	for from, p2p := range toMe {
		peer, err := r.public(from)
		if err != nil {
			return nil, err
		}
		bcast, err := bcastsIn.Get(from)
		if err != nil {
			return nil, err
		}
		if !p2p.RangeProof.Verify(rangeProofHash(from, me), zkenc.Public{
			K:      bcast.KICiphertext,
			Prover: peer.EK,
			Aux:    mine.ZkSetup,
		}) {
			info.LogAccuse(from, "range proof")
			if err := complaints.Add(from); err != nil {
				return nil, err
			}
		}
	}

	next := &round3{round2: r, r1Bcasts: bcastsIn, r1P2ps: p2psIn}

	if complaints.MemberCount() > 0 {
		bcast, err := protocol.Serialize(bcast2{Sad: &bcast2Sad{ZkpComplaints: complaints}})
		if err != nil {
			return nil, err
		}
		return protocol.NewRound[[]byte, ShareID, bcast2, p2p2](next, bcast, nil), nil
	}

	wI, err := r.allW.Get(me)
	if err != nil {
		return nil, err
	}
	peers, _, err := r.keygenIDs.PunctureHole(me)
	if err != nil {
		return nil, err
	}
	responses, err := collections.MapHoleResult(peers, func(to collections.TypedIndex[ShareID], _ collections.TypedIndex[keygen.ShareID]) (mtaResponses, error) {
		peer, err := r.public(to)
		if err != nil {
			return mtaResponses{}, err
		}
		bcast, err := bcastsIn.Get(to)
		if err != nil {
			return mtaResponses{}, err
		}

		// kⱼ⋅γᵢ
		alpha, alphaProof, beta := mta.Prove(r.rand, mtaProofHash(me, to), peer.EK, peer.ZkSetup, bcast.KICiphertext, r.gammaI, nil)
		// kⱼ⋅wᵢ, checked against Wᵢ
		mu, muProof, nu := mta.Prove(r.rand, mtaProofWcHash(me, to), peer.EK, peer.ZkSetup, bcast.KICiphertext, r.wI, wI)

		return mtaResponses{
			p2p: p2p2{
				AlphaCiphertext: alpha,
				AlphaProof:      alphaProof,
				MuCiphertext:    mu,
				MuProof:         muProof,
			},
			beta: beta,
			nu:   nu,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	p2ps, err := collections.MapHoleResult(responses, func(_ collections.TypedIndex[ShareID], m mtaResponses) ([]byte, error) {
		return protocol.Serialize(m.p2p)
	})
	if err != nil {
		return nil, err
	}
	next.betaSecrets = collections.MapHole(responses, func(m mtaResponses) mta.Secret { return m.beta })
	next.nuSecrets = collections.MapHole(responses, func(m mtaResponses) mta.Secret { return m.nu })

	bcast, err := protocol.Serialize(bcast2{Happy: &struct{}{}})
	if err != nil {
		return nil, err
	}
	return protocol.NewRound[[]byte, ShareID, bcast2, p2p2](next, bcast, &p2ps), nil
}
