package sign

import (
	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zklogstar "github.com/axelarnetwork/tofn-sub002/pkg/zk/logstar"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
)

type round5 struct {
	*round4

	// δⱼ and Tⱼ of every share
	r3Bcasts collections.VecMap[ShareID, bcast3Happy]
	// δ⁻¹, unset if δ = 0
	deltaInv *curve.Scalar
}

type bcast5 struct {
	// Rᵢ = kᵢ⋅R
	RI *curve.Point
}

type p2p5 struct {
	// proof that Kᵢ encrypts the discrete log of Rᵢ in base R
	RIProof *zklogstar.Proof
}

func logstarHash(prover, verifier collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewHash(params.TagRangeProofWc, prover.Int(), verifier.Int())
}

// Execute opens every Γⱼ and computes R = δ⁻¹⋅∑ⱼ Γⱼ.
// If δ = 0 every share sent a type 5 reveal instead, and Execute looks for the culprit.
func (r *round5) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast4]) (builder, error) {
	me := info.MyID()
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	for from, bcast := range bcastsIn.All() {
		var msg string
		switch {
		case (bcast.Happy == nil) == (bcast.Type5 == nil):
			msg = "expected exactly one of happy or type 5"
		case r.deltaInv == nil && bcast.Happy != nil:
			msg = "happy although delta is zero"
		case r.deltaInv != nil && bcast.Type5 != nil:
			msg = "type 5 although delta is non-zero"
		}
		if msg != "" {
			if err := fault(from, msg); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	if r.deltaInv == nil {
		return r.type5Faulters(info, collections.Map(bcastsIn, func(b bcast4) *type5Reveal { return b.Type5 }))
	}

	bigGamma := curve.NewIdentityPoint()
	for from, bcast := range bcastsIn.All() {
		r1, err := r.r1Bcasts.Get(from)
		if err != nil {
			return nil, err
		}
		if bcast.Happy.GammaI == nil || !gammaICommitHash().Decommit(r1.GammaICommit, bcast.Happy.GammaIReveal, from.Int(), bcast.Happy.GammaI) {
			if err := fault(from, "gamma_i commitment"); err != nil {
				return nil, err
			}
			continue
		}
		bigGamma.Add(bigGamma, bcast.Happy.GammaI)
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	// R = δ⁻¹⋅Γ = k⁻¹⋅G
	bigR := curve.NewIdentityPoint().ScalarMult(r.deltaInv, bigGamma)
	bigRI := curve.NewIdentityPoint().ScalarMult(r.kI, bigR)

	mine, err := r.public(me)
	if err != nil {
		return nil, err
	}
	myK := r.r1Bcasts.Values()[me.Int()].KICiphertext
	peers, _, err := r.keygenIDs.PunctureHole(me)
	if err != nil {
		return nil, err
	}
	p2ps, err := collections.MapHoleResult(peers, func(to collections.TypedIndex[ShareID], _ collections.TypedIndex[keygen.ShareID]) ([]byte, error) {
		peer, err := r.public(to)
		if err != nil {
			return nil, err
		}
		proof := zklogstar.NewProof(r.rand, logstarHash(me, to), zklogstar.Public{
			C:      myK,
			X:      bigRI,
			G:      bigR,
			Prover: mine.EK,
			Aux:    peer.ZkSetup,
		}, zklogstar.Private{X: r.kI, Rho: r.kIRandomness})
		return protocol.Serialize(p2p5{RIProof: proof})
	})
	if err != nil {
		return nil, err
	}

	bcast, err := protocol.Serialize(bcast5{RI: bigRI})
	if err != nil {
		return nil, err
	}
	next := &round6{
		round5:   r,
		r4Bcasts: collections.Map(bcastsIn, func(b bcast4) bcast4Happy { return *b.Happy }),
		bigR:     bigR,
	}
	return protocol.NewBcastAndP2p[[]byte, ShareID, bcast5, p2p5](next, bcast, p2ps), nil
}
