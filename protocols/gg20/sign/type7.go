package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/mta"
	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkcp "github.com/axelarnetwork/tofn-sub002/pkg/zk/cp"
)

// type7Reveal opens kᵢ and every μᵢⱼ, so that peers can compute σᵢ⋅G and check Sᵢ against it.
type type7Reveal struct {
	KI           *curve.Scalar
	KIRandomness *saferith.Nat
	MuPlaintexts collections.HoleVecMap[ShareID, mta.Plaintext]
	// proof that σᵢ⋅G and Sᵢ = σᵢ⋅R share their discrete log
	SigmaIProof *zkcp.Proof
}

func chaumPedersenHash(prover collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewBcastHash(params.TagChaumPedersenProof, prover.Int())
}

func (r *round7) type7Reveal(me collections.TypedIndex[ShareID]) (*type7Reveal, error) {
	proof := zkcp.NewProof(r.rand, chaumPedersenHash(me), zkcp.Public{
		Base1:   curve.NewBasePoint(),
		Base2:   r.bigR,
		Target1: r.sigmaI.ActOnBase(),
		Target2: r.sI,
	}, r.sigmaI)
	return &type7Reveal{
		KI:           r.kI,
		KIRandomness: r.kIRandomness,
		MuPlaintexts: r.mus,
		SigmaIProof:  proof,
	}, nil
}

// type7Faulters checks every reveal against the messages of rounds 1, 2 and 6.
//
// With k = ∑ⱼ kⱼ every share satisfies σⱼ⋅G = k⋅Wⱼ + ∑ₗ (μⱼₗ - μₗⱼ)⋅G, because μₗⱼ = kₗ⋅wⱼ + ν'ⱼₗ.
func (r *round8) type7Faulters(info *protocol.Info[ShareID], reveals collections.VecMap[ShareID, *type7Reveal]) (builder, error) {
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	// the reveals must be consistent before σⱼ⋅G can be computed
	k := curve.NewScalar()
	for from, reveal := range reveals.All() {
		msg, err := r.checkType7(info, from, reveal)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			if err := fault(from, msg); err != nil {
				return nil, err
			}
			continue
		}
		k.Add(k, reveal.KI)
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[[]byte](faulters), nil
	}

	for from, reveal := range reveals.All() {
		wJ, err := r.allW.Get(from)
		if err != nil {
			return nil, err
		}
		sigmaJ := curve.NewIdentityPoint().ScalarMult(k, wJ)
		for l, mu := range reveal.MuPlaintexts.All() {
			muL, err := reveals.Values()[l.Int()].MuPlaintexts.Get(from)
			if err != nil {
				return nil, err
			}
			diff := curve.NewScalar().Subtract(mu.Share(), muL.Share())
			sigmaJ.Add(sigmaJ, diff.ActOnBase())
		}
		if !reveal.SigmaIProof.Verify(chaumPedersenHash(from), zkcp.Public{
			Base1:   curve.NewBasePoint(),
			Base2:   r.bigR,
			Target1: sigmaJ,
			Target2: r.r6Bcasts.Values()[from.Int()],
		}) {
			if err := fault(from, "S_i does not match sigma_i"); err != nil {
				return nil, err
			}
		}
	}

	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "type 7 reveals found no faulters")
	}
	return protocol.Faulty[[]byte](faulters), nil
}

// checkType7 returns a description of what is wrong with the reveal of from, or "" if it is consistent.
func (r *round8) checkType7(info *protocol.Info[ShareID], from collections.TypedIndex[ShareID], reveal *type7Reveal) (string, error) {
	if reveal == nil || reveal.KI == nil || reveal.KIRandomness == nil {
		return "incomplete type 7 reveal", nil
	}
	mus := reveal.MuPlaintexts
	if mus.Hole() != from || mus.Len() != info.TotalShareCount() {
		return "type 7 reveal with wrong shape", nil
	}
	sender, err := r.public(from)
	if err != nil {
		return "", err
	}
	r1, err := r.r1Bcasts.Get(from)
	if err != nil {
		return "", err
	}
	if !arith.IsValidNatModN(sender.EK.N(), reveal.KIRandomness) ||
		!sender.EK.EncWithNonce(reveal.KI.Nat(), reveal.KIRandomness).Equal(r1.KICiphertext) {
		return "k_i does not match K_i", nil
	}

	for l, mu := range mus.All() {
		p2p, err := r.r2P2ps.Get(l, from)
		if err != nil {
			return "", err
		}
		if !mu.Opens(sender.EK, p2p.MuCiphertext) {
			return "mu does not match its ciphertext", nil
		}
	}
	return "", nil
}
