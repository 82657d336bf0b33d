package sign

import (
	"github.com/axelarnetwork/tofn-sub002/internal/mta"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	zkped "github.com/axelarnetwork/tofn-sub002/pkg/zk/ped"
)

type round4 struct {
	*round3

	r2P2ps collections.FullP2ps[ShareID, p2p2]
	// αᵢⱼ and μᵢⱼ with the randomness of their ciphertexts
	alphas collections.HoleVecMap[ShareID, mta.Plaintext]
	mus    collections.HoleVecMap[ShareID, mta.Plaintext]

	deltaI *curve.Scalar
	sigmaI *curve.Scalar
	lI     *curve.Scalar
}

// bcast4 carries exactly one of Happy or Type5. Type5 is sent when δ = 0.
type bcast4 struct {
	Happy *bcast4Happy `cbor:",omitempty"`
	Type5 *type5Reveal `cbor:",omitempty"`
}

type bcast4Happy struct {
	GammaI       *curve.Point
	GammaIReveal hash.Decommitment
}

// Execute adjudicates the MtA complaints of round 3 if there are any.
// Otherwise it checks every Tᵢ proof, sums δ and reveals Γᵢ.
func (r *round4) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast3]) (builder, error) {
	me := info.MyID()
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	sad := false
	for from, bcast := range bcastsIn.All() {
		if (bcast.Happy == nil) == (bcast.Sad == nil) {
			info.LogFault(from, "expected exactly one of happy or sad")
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
		sad = sad || bcast.Sad != nil
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}
	if sad {
		return r.adjudicate(info, bcastsIn)
	}

	delta := curve.NewScalar()
	for from, bcast := range bcastsIn.All() {
		if bcast.Happy.DeltaI == nil || !bcast.Happy.TIProof.Verify(pedersenHash(from), zkped.Public{T: bcast.Happy.TI}) {
			info.LogFault(from, "pedersen proof")
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
			continue
		}
		delta.Add(delta, bcast.Happy.DeltaI)
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	next := &round5{
		round4:   r,
		r3Bcasts: collections.Map(bcastsIn, func(b bcast3) bcast3Happy { return *b.Happy }),
	}

	if delta.IsZero() {
		info.Log().Warn().Msg("delta is zero, revealing k_i and gamma_i")
		reveal, err := r.type5Reveal(me)
		if err != nil {
			return nil, err
		}
		bcast, err := protocol.Serialize(bcast4{Type5: reveal})
		if err != nil {
			return nil, err
		}
		return protocol.NewBcastOnly[[]byte, ShareID, bcast4](next, bcast), nil
	}

	next.deltaInv = curve.NewScalar().Invert(delta)
	bcast, err := protocol.Serialize(bcast4{Happy: &bcast4Happy{GammaI: r.bigGammaI, GammaIReveal: r.bigGammaIReveal}})
	if err != nil {
		return nil, err
	}
	return protocol.NewBcastOnly[[]byte, ShareID, bcast4](next, bcast), nil
}

// adjudicate decides every MtA complaint of round 3 by checking the accused's proof again.
func (r *round4) adjudicate(info *protocol.Info[ShareID], bcasts collections.VecMap[ShareID, bcast3]) (builder, error) {
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	for accuser, bcast := range bcasts.All() {
		if bcast.Sad == nil {
			continue
		}
		complaints := bcast.Sad.MtaComplaints
		if len(complaints) == 0 {
			if err := fault(accuser, "empty complaint list"); err != nil {
				return nil, err
			}
			continue
		}
		accuserInfo, err := r.public(accuser)
		if err != nil {
			return nil, err
		}
		accuserK := r.r1Bcasts.Values()[accuser.Int()].KICiphertext

		seen := collections.NewSubset[ShareID](info.TotalShareCount())
		for _, c := range complaints {
			if member, err := seen.IsMember(c.Accused); err != nil || member || c.Accused == accuser {
				if err := fault(accuser, "accused out of range, itself or twice"); err != nil {
					return nil, err
				}
				break
			}
			if err := seen.Add(c.Accused); err != nil {
				return nil, err
			}

			p2p, err := r.r2P2ps.Get(c.Accused, accuser)
			if err != nil {
				return nil, err
			}
			var valid bool
			switch c.Kind {
			case mtaAlpha:
				valid = mta.Verify(mtaProofHash(c.Accused, accuser), accuserInfo.EK, accuserInfo.ZkSetup,
					accuserK, p2p.AlphaCiphertext, nil, p2p.AlphaProof)
			case mtaMu:
				wJ, err := r.allW.Get(c.Accused)
				if err != nil {
					return nil, err
				}
				valid = mta.Verify(mtaProofWcHash(c.Accused, accuser), accuserInfo.EK, accuserInfo.ZkSetup,
					accuserK, p2p.MuCiphertext, wJ, p2p.MuProof)
			default:
				if err := fault(accuser, "unknown complaint kind"); err != nil {
					return nil, err
				}
				continue
			}

			if valid {
				err = fault(accuser, "false accusation: valid mta proof")
			} else {
				err = fault(c.Accused, "invalid mta proof")
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "mta complaints found no faulters")
	}
	return protocol.Faulty[[]byte](faulters), nil
}
