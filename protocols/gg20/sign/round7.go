package sign

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	zklogstar "github.com/axelarnetwork/tofn-sub002/pkg/zk/logstar"
	zkped "github.com/axelarnetwork/tofn-sub002/pkg/zk/ped"
)

type round7 struct {
	*round6

	r5Bcasts collections.VecMap[ShareID, *curve.Point]
	r5P2ps   collections.FullP2ps[ShareID, p2p5]

	// set if this share sent a type 5 reveal in round 6
	sawType5 bool
	sI       *curve.Point
}

// bcast7 carries exactly one of Happy or Type7.
type bcast7 struct {
	Happy *bcast7Happy `cbor:",omitempty"`
	Type7 *type7Reveal `cbor:",omitempty"`
}

type bcast7Happy struct {
	// sᵢ = m⋅kᵢ + r⋅σᵢ
	SI *curve.Scalar
}

type r7Path uint8

const (
	r7Happy r7Path = iota + 1
	r7Sad
	r7Type5
)

// Execute adjudicates the Rᵢ complaints of round 6 or checks the type 5 reveals if there are any.
// Otherwise it checks every Sⱼ and that ∑ⱼ Sⱼ = y, then sends sᵢ.
func (r *round7) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast6]) (builder, error) {
	me := info.MyID()
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	paths := make([]r7Path, bcastsIn.Len())
	sad := false
	for from, bcast := range bcastsIn.All() {
		count := 0
		if bcast.Happy != nil {
			count++
			paths[from.Int()] = r7Happy
		}
		if bcast.Sad != nil {
			count++
			paths[from.Int()] = r7Sad
			sad = true
		}
		if bcast.Type5 != nil {
			count++
			paths[from.Int()] = r7Type5
		}
		if count != 1 {
			if err := fault(from, "expected exactly one of happy, sad or type 5"); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}
	if sad {
		return r.adjudicate(info, bcastsIn)
	}

	// Every share sees the same Rⱼ, so either all of them reveal or none.
	want := r7Happy
	if r.sawType5 {
		want = r7Type5
	}
	for from, path := range paths {
		if path != want {
			if err := fault(collections.FromInt[ShareID](from), "unexpected type 5 choice"); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}
	if r.sawType5 {
		return r.type5Faulters(info, collections.Map(bcastsIn, func(b bcast6) *type5Reveal { return b.Type5 }))
	}

	sumS := curve.NewIdentityPoint()
	for from, bcast := range bcastsIn.All() {
		tJ := r.r3Bcasts.Values()[from.Int()].TI
		if bcast.Happy.SI == nil || !bcast.Happy.SIProof.Verify(pedersenHash(from), zkped.Public{T: tJ, S: bcast.Happy.SI, R: r.bigR}) {
			if err := fault(from, "S_i proof"); err != nil {
				return nil, err
			}
			continue
		}
		sumS.Add(sumS, bcast.Happy.SI)
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	next := &round8{
		round7:   r,
		r6Bcasts: collections.Map(bcastsIn, func(b bcast6) *curve.Point { return b.Happy.SI }),
	}

	// ∑ⱼ Sⱼ = σ⋅R = k⋅x⋅k⁻¹⋅G = y
	if !sumS.Equal(r.key.Group.Y) {
		info.Log().Warn().Msg("sum of S_i is not y, revealing k_i and mu_ij")
		reveal, err := r.type7Reveal(me)
		if err != nil {
			return nil, err
		}
		next.sawType7 = true
		bcast, err := protocol.Serialize(bcast7{Type7: reveal})
		if err != nil {
			return nil, err
		}
		return protocol.NewBcastOnly[[]byte, ShareID, bcast7](next, bcast), nil
	}

	next.sigR = r.bigR.XScalar()
	sI := curve.NewScalar().Multiply(next.sigR, r.sigmaI)
	sI.MultiplyAdd(r.digest, r.kI, sI)
	bcast, err := protocol.Serialize(bcast7{Happy: &bcast7Happy{SI: sI}})
	if err != nil {
		return nil, err
	}
	return protocol.NewBcastOnly[[]byte, ShareID, bcast7](next, bcast), nil
}

// adjudicate decides every Rᵢ proof complaint of round 6 by checking the proof again.
func (r *round7) adjudicate(info *protocol.Info[ShareID], bcasts collections.VecMap[ShareID, bcast6]) (builder, error) {
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	for accuser, bcast := range bcasts.All() {
		if bcast.Sad == nil {
			continue
		}
		accused := bcast.Sad.ZkpComplaints
		if accused.MaxSize() != info.TotalShareCount() || accused.MemberCount() == 0 {
			if err := fault(accuser, "malformed complaints"); err != nil {
				return nil, err
			}
			continue
		}
		accuserInfo, err := r.public(accuser)
		if err != nil {
			return nil, err
		}
		for a := range accused.Members() {
			if a == accuser {
				if err := fault(accuser, "self accusation"); err != nil {
					return nil, err
				}
				continue
			}
			accusedInfo, err := r.public(a)
			if err != nil {
				return nil, err
			}
			p2p, err := r.r5P2ps.Get(a, accuser)
			if err != nil {
				return nil, err
			}
			if p2p.RIProof.Verify(logstarHash(a, accuser), zklogstar.Public{
				C:      r.r1Bcasts.Values()[a.Int()].KICiphertext,
				X:      r.r5Bcasts.Values()[a.Int()],
				G:      r.bigR,
				Prover: accusedInfo.EK,
				Aux:    accuserInfo.ZkSetup,
			}) {
				err = fault(accuser, "false accusation: valid R_i proof")
			} else {
				err = fault(a, "invalid R_i proof")
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "R_i proof complaints found no faulters")
	}
	return protocol.Faulty[[]byte](faulters), nil
}
