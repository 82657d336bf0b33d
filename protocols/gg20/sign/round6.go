package sign

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	zklogstar "github.com/axelarnetwork/tofn-sub002/pkg/zk/logstar"
	zkped "github.com/axelarnetwork/tofn-sub002/pkg/zk/ped"
)

type round6 struct {
	*round5

	r4Bcasts collections.VecMap[ShareID, bcast4Happy]
	bigR     *curve.Point
}

// bcast6 carries exactly one of Happy, Sad or Type5.
type bcast6 struct {
	Happy *bcast6Happy `cbor:",omitempty"`
	Sad   *bcast6Sad   `cbor:",omitempty"`
	Type5 *type5Reveal `cbor:",omitempty"`
}

type bcast6Happy struct {
	// Sᵢ = σᵢ⋅R
	SI      *curve.Point
	SIProof *zkped.Proof
}

type bcast6Sad struct {
	// shares whose Rᵢ proof failed
	ZkpComplaints collections.Subset[ShareID]
}

// Execute checks every Rⱼ proof and that ∑ⱼ Rⱼ = G, then sends Sᵢ = σᵢ⋅R.
// A failed proof leads to a complaint and a wrong sum to a type 5 reveal.
func (r *round6) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast5], p2psIn collections.FullP2ps[ShareID, p2p5]) (builder, error) {
	me := info.MyID()
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	for from, bcast := range bcastsIn.All() {
		if bcast.RI == nil {
			info.LogFault(from, "missing R_i")
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	mine, err := r.public(me)
	if err != nil {
		return nil, err
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
		if !p2p.RIProof.Verify(logstarHash(from, me), zklogstar.Public{
			C:      r.r1Bcasts.Values()[from.Int()].KICiphertext,
			X:      bcastsIn.Values()[from.Int()].RI,
			G:      r.bigR,
			Prover: peer.EK,
			Aux:    mine.ZkSetup,
		}) {
			info.LogAccuse(from, "R_i proof")
			if err := complaints.Add(from); err != nil {
				return nil, err
			}
		}
	}

	next := &round7{
		round6:   r,
		r5Bcasts: collections.Map(bcastsIn, func(b bcast5) *curve.Point { return b.RI }),
		r5P2ps:   p2psIn,
	}

	var out bcast6
	if complaints.MemberCount() > 0 {
		out.Sad = &bcast6Sad{ZkpComplaints: complaints}
	} else {
		sumR := curve.NewIdentityPoint()
		for _, rJ := range next.r5Bcasts.All() {
			sumR.Add(sumR, rJ)
		}
		if !sumR.Equal(curve.NewBasePoint()) {
			info.Log().Warn().Msg("sum of R_i is not G, revealing k_i and gamma_i")
			reveal, err := r.type5Reveal(me)
			if err != nil {
				return nil, err
			}
			out.Type5 = reveal
			next.sawType5 = true
		} else {
			sI := curve.NewIdentityPoint().ScalarMult(r.sigmaI, r.bigR)
			myT := r.r3Bcasts.Values()[me.Int()].TI
			proof := zkped.NewProof(r.rand, pedersenHash(me), zkped.Public{T: myT, S: sI, R: r.bigR}, zkped.Private{Sigma: r.sigmaI, L: r.lI})
			out.Happy = &bcast6Happy{SI: sI, SIProof: proof}
			next.sI = sI
		}
	}

	bcast, err := protocol.Serialize(out)
	if err != nil {
		return nil, err
	}
	return protocol.NewBcastOnly[[]byte, ShareID, bcast6](next, bcast), nil
}
