package sign

import (
	"github.com/axelarnetwork/tofn-sub002/internal/mta"
	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkenc "github.com/axelarnetwork/tofn-sub002/pkg/zk/enc"
	zkped "github.com/axelarnetwork/tofn-sub002/pkg/zk/ped"
)

type round3 struct {
	*round2

	r1Bcasts collections.VecMap[ShareID, bcast1]
	r1P2ps   collections.FullP2ps[ShareID, p2p1]

	// Unset if this share complained in round 2.
	betaSecrets collections.HoleVecMap[ShareID, mta.Secret]
	nuSecrets   collections.HoleVecMap[ShareID, mta.Secret]
}

// bcast3 carries exactly one of Happy or Sad.
type bcast3 struct {
	Happy *bcast3Happy `cbor:",omitempty"`
	Sad   *bcast3Sad   `cbor:",omitempty"`
}

type bcast3Happy struct {
	DeltaI *curve.Scalar
	// Tᵢ = σᵢ⋅G + lᵢ⋅H
	TI      *curve.Point
	TIProof *zkped.Proof
}

type bcast3Sad struct {
	MtaComplaints []mtaComplaint
}

type mtaKind uint8

const (
	mtaAlpha mtaKind = iota + 1
	mtaMu
)

type mtaComplaint struct {
	Accused collections.TypedIndex[ShareID]
	Kind    mtaKind
}

func pedersenHash(prover collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewBcastHash(params.TagPedersenProof, prover.Int())
}

type r3Path uint8

const (
	r3Happy r3Path = iota + 1
	r3Sad
)

// Execute adjudicates the range proof complaints of round 2 if there are any.
// Otherwise it checks the MtA proofs sent to this share and computes δᵢ and σᵢ.
func (r *round3) Execute(info *protocol.Info[ShareID], bcastsIn collections.FillVecMap[ShareID, bcast2], p2psIn collections.P2ps[ShareID, p2p2]) (builder, error) {
	me := info.MyID()
	paths, faulters, err := protocol.Classify(info, bcastsIn, p2psIn,
		func(from collections.TypedIndex[ShareID], bcast *bcast2, p2ps *collections.HoleVecMap[ShareID, p2p2]) (r3Path, bool) {
			if bcast == nil {
				return 0, false
			}
			switch {
			case bcast.Happy != nil && bcast.Sad == nil && p2ps != nil:
				return r3Happy, true
			case bcast.Sad != nil && bcast.Happy == nil && p2ps == nil:
				return r3Sad, true
			}
			return 0, false
		})
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	bcasts, err := bcastsIn.UnwrapAll()
	if err != nil {
		return nil, err
	}
	for _, p := range paths.All() {
		if p == r3Sad {
			return r.adjudicate(info, bcasts)
		}
	}

	p2ps, err := p2psIn.ToFullP2ps()
	if err != nil {
		return nil, err
	}
	mine, err := r.public(me)
	if err != nil {
		return nil, err
	}
	myK := r.r1Bcasts.Values()[me.Int()].KICiphertext

	var complaints []mtaComplaint
	alphas := make(map[int]mta.Plaintext, info.TotalShareCount())
	mus := make(map[int]mta.Plaintext, info.TotalShareCount())
	toMe, err := p2ps.ToMe(me)
	if err != nil {
		return nil, err
	}
	for from, p2p := range toMe {
		wJ, err := r.allW.Get(from)
		if err != nil {
			return nil, err
		}
		if !mta.Verify(mtaProofHash(from, me), mine.EK, mine.ZkSetup, myK, p2p.AlphaCiphertext, nil, p2p.AlphaProof) {
			info.LogAccuse(from, "mta proof")
			complaints = append(complaints, mtaComplaint{Accused: from, Kind: mtaAlpha})
			continue
		}
		if !mta.Verify(mtaProofWcHash(from, me), mine.EK, mine.ZkSetup, myK, p2p.MuCiphertext, wJ, p2p.MuProof) {
			info.LogAccuse(from, "mta proof wc")
			complaints = append(complaints, mtaComplaint{Accused: from, Kind: mtaMu})
			continue
		}

		alpha, err := mta.Decrypt(r.key.Share.DK, p2p.AlphaCiphertext)
		if err != nil {
			info.LogAccuse(from, "undecryptable alpha")
			complaints = append(complaints, mtaComplaint{Accused: from, Kind: mtaAlpha})
			continue
		}
		mu, err := mta.Decrypt(r.key.Share.DK, p2p.MuCiphertext)
		if err != nil {
			info.LogAccuse(from, "undecryptable mu")
			complaints = append(complaints, mtaComplaint{Accused: from, Kind: mtaMu})
			continue
		}
		alphas[from.Int()] = alpha
		mus[from.Int()] = mu
	}

	next := &round4{round3: r, r2P2ps: p2ps}

	if len(complaints) > 0 {
		bcast, err := protocol.Serialize(bcast3{Sad: &bcast3Sad{MtaComplaints: complaints}})
		if err != nil {
			return nil, err
		}
		return protocol.NewBcastOnly[[]byte, ShareID, bcast3](next, bcast), nil
	}

	// δᵢ = kᵢ⋅γᵢ + ∑ⱼ (αᵢⱼ + βᵢⱼ)
	// σᵢ = kᵢ⋅wᵢ + ∑ⱼ (μᵢⱼ + νᵢⱼ)
	deltaI := curve.NewScalar().Multiply(r.kI, r.gammaI)
	sigmaI := curve.NewScalar().Multiply(r.kI, r.wI)
	for j, beta := range r.betaSecrets.All() {
		nu, err := r.nuSecrets.Get(j)
		if err != nil {
			return nil, err
		}
		deltaI.Add(deltaI, alphas[j.Int()].Share())
		deltaI.Add(deltaI, beta.Share())
		sigmaI.Add(sigmaI, mus[j.Int()].Share())
		sigmaI.Add(sigmaI, nu.Share())
	}
	if r.sigmaOffset != nil {
		sigmaI.Add(sigmaI, r.sigmaOffset)
	}
	next.alphas = holeFromMap(alphas, me, info.TotalShareCount())
	next.mus = holeFromMap(mus, me, info.TotalShareCount())
	next.deltaI = deltaI
	next.sigmaI = sigmaI

	next.lI = sample.Scalar(r.rand)
	tI := zkped.Commit(sigmaI, next.lI)
	proof := zkped.NewProof(r.rand, pedersenHash(me), zkped.Public{T: tI}, zkped.Private{Sigma: sigmaI, L: next.lI})

	bcast, err := protocol.Serialize(bcast3{Happy: &bcast3Happy{DeltaI: deltaI, TI: tI, TIProof: proof}})
	if err != nil {
		return nil, err
	}
	return protocol.NewBcastOnly[[]byte, ShareID, bcast3](next, bcast), nil
}

// adjudicate decides every range proof complaint of round 2 by checking the proof again.
func (r *round3) adjudicate(info *protocol.Info[ShareID], bcasts collections.VecMap[ShareID, bcast2]) (builder, error) {
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
			p2p, err := r.r1P2ps.Get(a, accuser)
			if err != nil {
				return nil, err
			}
			if p2p.RangeProof.Verify(rangeProofHash(a, accuser), zkenc.Public{
				K:      r.r1Bcasts.Values()[a.Int()].KICiphertext,
				Prover: accusedInfo.EK,
				Aux:    accuserInfo.ZkSetup,
			}) {
				err = fault(accuser, "false accusation: valid range proof")
			} else {
				err = fault(a, "invalid range proof")
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "range proof complaints found no faulters")
	}
	return protocol.Faulty[[]byte](faulters), nil
}

// holeFromMap collects the values of m for every index but hole.
func holeFromMap[V any](m map[int]V, hole collections.TypedIndex[ShareID], n int) collections.HoleVecMap[ShareID, V] {
	vals := make([]V, 0, n-1)
	for i := 0; i < n; i++ {
		if i != hole.Int() {
			vals = append(vals, m[i])
		}
	}
	h, _ := collections.NewVecMap[ShareID](vals).RememberHole(hole)
	return h
}
