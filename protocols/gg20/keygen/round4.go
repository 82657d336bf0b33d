package keygen

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

type round4 struct {
	*round3

	r2Bcasts collections.VecMap[ShareID, bcast2]
	r2P2ps   collections.FullP2ps[ShareID, p2p2]

	// Unset if this share complained in round 3.
	xI   *curve.Scalar
	y    *curve.Point
	allX collections.VecMap[ShareID, *curve.Point]
}

type path uint8

const (
	pathHappy path = iota + 1
	pathSad
)

// Execute either adjudicates the complaints of round 3, or checks every proof of knowledge of xⱼ
// and outputs the SecretKeyShare.
func (r *round4) Execute(info *protocol.Info[ShareID], bcastsIn collections.FillVecMap[ShareID, bcast3], p2psIn collections.P2ps[ShareID, struct{}]) (builder, error) {
	paths, faulters, err := protocol.Classify(info, bcastsIn, p2psIn,
		func(_ collections.TypedIndex[ShareID], bcast *bcast3, p2ps *collections.HoleVecMap[ShareID, struct{}]) (path, bool) {
			if bcast == nil || p2ps != nil {
				return 0, false
			}
			switch {
			case bcast.Happy != nil && bcast.Sad == nil:
				return pathHappy, true
			case bcast.Sad != nil && bcast.Happy == nil:
				return pathSad, true
			}
			return 0, false
		})
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[*SecretKeyShare](faulters), nil
	}

	bcasts, err := bcastsIn.UnwrapAll()
	if err != nil {
		return nil, err
	}
	for _, p := range paths.All() {
		if p == pathSad {
			return r.adjudicate(info, bcasts)
		}
	}
	if r.xI == nil {
		return nil, protocol.Fatalf(*info.Log(), "every share is happy but I complained")
	}

	for from, bcast := range bcasts.All() {
		if from == info.MyID() {
			continue
		}
		xJ, err := r.allX.Get(from)
		if err != nil {
			return nil, err
		}
		if !bcast.Happy.XIProof.Verify(schnorrHash(from), xJ) {
			info.LogFault(from, "x_i proof")
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[*SecretKeyShare](faulters), nil
	}

	allShares, err := collections.Map2Result(r.allX, func(i collections.TypedIndex[ShareID], x *curve.Point) (SharePublicInfo, error) {
		r1Bcast, err := r.r1Bcasts.Get(i)
		if err != nil {
			return SharePublicInfo{}, err
		}
		return SharePublicInfo{X: x, EK: r1Bcast.EK, ZkSetup: r1Bcast.ZkSetup}, nil
	})
	if err != nil {
		return nil, err
	}

	info.Log().Info().Msg("keygen done")
	return protocol.Output[*SecretKeyShare, ShareID](&SecretKeyShare{
		Group: GroupPublicInfo{
			PartyShareCounts: r.psc,
			Threshold:        r.threshold,
			Y:                r.y,
			AllShares:        allShares,
		},
		Share: ShareSecretInfo{
			Index: info.MyID(),
			DK:    r.dk,
			X:     r.xI,
		},
	}), nil
}

// adjudicate decides every complaint of round 3. Each complaint faults either the accuser or the accused.
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
		if len(bcast.Sad.VssComplaints) == 0 {
			if err := fault(accuser, "no accusation found"); err != nil {
				return nil, err
			}
			continue
		}
		accuserEK := r.r1Bcasts.Values()[accuser.Int()].EK
		seen := collections.NewSubset[ShareID](info.TotalShareCount())
		for _, c := range bcast.Sad.VssComplaints {
			accused := c.Accused
			if accused.Int() < 0 || accused.Int() >= info.TotalShareCount() {
				if err := fault(accuser, "accused out of range"); err != nil {
					return nil, err
				}
				continue
			}
			if accused == accuser {
				if err := fault(accuser, "self accusation"); err != nil {
					return nil, err
				}
				continue
			}
			if dup, err := seen.IsMember(accused); err != nil {
				return nil, err
			} else if dup {
				if err := fault(accuser, "duplicate accusation"); err != nil {
					return nil, err
				}
				continue
			}
			if err := seen.Add(accused); err != nil {
				return nil, err
			}

			p2p, err := r.r2P2ps.Get(accused, accuser)
			if err != nil {
				return nil, err
			}
			ct := p2p.UIShareCiphertext
			var faulter collections.TypedIndex[ShareID]
			var msg string
			switch {
			case !accuserEK.ValidateCiphertexts(ct):
				faulter, msg = accused, "invalid ciphertext"
			case c.Plaintext == nil || c.Randomness == nil:
				faulter, msg = accuser, "false accusation: ciphertext is decryptable"
			case !arith.IsInRange(accuserEK.NNat(), c.Plaintext) || !arith.IsValidNatModN(accuserEK.N(), c.Randomness):
				faulter, msg = accuser, "malformed accusation"
			case !accuserEK.EncWithNonce(c.Plaintext, c.Randomness).Equal(ct):
				faulter, msg = accuser, "false accusation: wrong decryption"
			case validShare(r.r2Bcasts.Values()[accused.Int()].UIVssCommit, accuser, c.Plaintext):
				faulter, msg = accuser, "false accusation: valid share"
			default:
				faulter, msg = accused, "invalid vss share"
			}
			if err := fault(faulter, msg); err != nil {
				return nil, err
			}
		}
	}

	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "complaints found no faulters")
	}
	return protocol.Faulty[*SecretKeyShare](faulters), nil
}
