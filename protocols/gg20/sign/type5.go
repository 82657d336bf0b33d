package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/mta"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

// type5Reveal opens every secret behind δᵢ, so that peers can find whoever made δ = 0
// or R inconsistent with the Γⱼ.
type type5Reveal struct {
	KI           *curve.Scalar
	KIRandomness *saferith.Nat
	GammaI       *curve.Scalar
	GammaIReveal hash.Decommitment
	// indexed by the other side j of the MtA
	MtaPlaintexts collections.HoleVecMap[ShareID, type5Mta]
}

type type5Mta struct {
	// αᵢⱼ = Decᵢ(Dⱼᵢ), opened under ekᵢ
	Alpha mta.Plaintext
	// β'ᵢⱼ, opened under ekⱼ
	Beta mta.Secret
}

func (r *round4) type5Reveal(me collections.TypedIndex[ShareID]) (*type5Reveal, error) {
	mtas, err := collections.MapHole2Result(r.alphas, r.betaSecrets, func(_ collections.TypedIndex[ShareID], alpha mta.Plaintext, beta mta.Secret) (type5Mta, error) {
		return type5Mta{Alpha: alpha, Beta: beta}, nil
	})
	if err != nil {
		return nil, err
	}
	return &type5Reveal{
		KI:            r.kI,
		KIRandomness:  r.kIRandomness,
		GammaI:        r.gammaI,
		GammaIReveal:  r.bigGammaIReveal,
		MtaPlaintexts: mtas,
	}, nil
}

// type5Faulters checks every reveal against the messages of rounds 1 to 3.
// At least one share must be faulted since δ = 0 or ∑ Rᵢ ≠ G cannot happen otherwise.
func (r *round5) type5Faulters(info *protocol.Info[ShareID], reveals collections.VecMap[ShareID, *type5Reveal]) (builder, error) {
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	for from, reveal := range reveals.All() {
		msg, err := r.checkType5(info, from, reveal)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			info.LogFault(from, msg)
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "type 5 reveals found no faulters")
	}
	return protocol.Faulty[[]byte](faulters), nil
}

// checkType5 returns a description of what is wrong with the reveal of from, or "" if it is consistent.
func (r *round5) checkType5(info *protocol.Info[ShareID], from collections.TypedIndex[ShareID], reveal *type5Reveal) (string, error) {
	if reveal == nil || reveal.KI == nil || reveal.KIRandomness == nil || reveal.GammaI == nil {
		return "incomplete type 5 reveal", nil
	}
	mtas := reveal.MtaPlaintexts
	if mtas.Hole() != from || mtas.Len() != info.TotalShareCount() {
		return "type 5 reveal with wrong shape", nil
	}
	sender, err := r.public(from)
	if err != nil {
		return "", err
	}
	r1, err := r.r1Bcasts.Get(from)
	if err != nil {
		return "", err
	}
	r3, err := r.r3Bcasts.Get(from)
	if err != nil {
		return "", err
	}

	// Kᵢ = Encᵢ(kᵢ; ρᵢ)
	if !arith.IsValidNatModN(sender.EK.N(), reveal.KIRandomness) ||
		!sender.EK.EncWithNonce(reveal.KI.Nat(), reveal.KIRandomness).Equal(r1.KICiphertext) {
		return "k_i does not match K_i", nil
	}
	bigGammaI := reveal.GammaI.ActOnBase()
	if !gammaICommitHash().Decommit(r1.GammaICommit, reveal.GammaIReveal, from.Int(), bigGammaI) {
		return "gamma_i does not match its commitment", nil
	}

	// δᵢ = kᵢ⋅γᵢ + ∑ⱼ (αᵢⱼ - β'ᵢⱼ)
	delta := curve.NewScalar().Multiply(reveal.KI, reveal.GammaI)
	for j, m := range mtas.All() {
		peer, err := r.public(j)
		if err != nil {
			return "", err
		}

		// Dⱼᵢ = Encᵢ(αᵢⱼ)
		toSender, err := r.r2P2ps.Get(j, from)
		if err != nil {
			return "", err
		}
		if !m.Alpha.Opens(sender.EK, toSender.AlphaCiphertext) {
			return "alpha does not match its ciphertext", nil
		}

		// Dᵢⱼ = γᵢ⊙Kⱼ ⊕ Encⱼ(β'ᵢⱼ)
		fromSender, err := r.r2P2ps.Get(from, j)
		if err != nil {
			return "", err
		}
		peerR1, err := r.r1Bcasts.Get(j)
		if err != nil {
			return "", err
		}
		if !m.Beta.Opens(peer.EK, peerR1.KICiphertext, fromSender.AlphaCiphertext, reveal.GammaI) {
			return "beta does not match the mta response", nil
		}

		delta.Add(delta, m.Alpha.Share())
		delta.Add(delta, m.Beta.Share())
	}
	if !delta.Equal(r3.DeltaI) {
		return "delta_i does not match the reveal", nil
	}
	return "", nil
}
