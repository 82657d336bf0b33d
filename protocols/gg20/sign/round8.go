package sign

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

type round8 struct {
	*round7

	// Sⱼ of every share
	r6Bcasts collections.VecMap[ShareID, *curve.Point]
	// r = R.x mod q
	sigR *curve.Scalar
	// set if this share sent a type 7 reveal
	sawType7 bool
}

// Execute combines the sⱼ into a signature and checks it against y.
// If ∑ⱼ Sⱼ ≠ y every share sent a type 7 reveal instead, and Execute looks for the culprit.
func (r *round8) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast7]) (builder, error) {
	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	fault := func(faulter collections.TypedIndex[ShareID], msg string) error {
		info.LogFault(faulter, msg)
		return faulters.Set(faulter, protocol.ProtocolFault)
	}

	for from, bcast := range bcastsIn.All() {
		var msg string
		switch {
		case (bcast.Happy == nil) == (bcast.Type7 == nil):
			msg = "expected exactly one of happy or type 7"
		case r.sawType7 && bcast.Happy != nil:
			msg = "happy although the S_i do not sum to y"
		case !r.sawType7 && bcast.Type7 != nil:
			msg = "type 7 although the S_i sum to y"
		case bcast.Happy != nil && bcast.Happy.SI == nil:
			msg = "missing s_i"
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

	if r.sawType7 {
		return r.type7Faulters(info, collections.Map(bcastsIn, func(b bcast7) *type7Reveal { return b.Type7 }))
	}

	s := curve.NewScalar()
	for _, bcast := range bcastsIn.All() {
		s.Add(s, bcast.Happy.SI)
	}
	if s.IsOverHalfOrder() {
		s.Negate(s)
	}

	rScalar, sScalar := r.sigR.ModNScalar(), s.ModNScalar()
	sig := ecdsa.NewSignature(&rScalar, &sScalar)
	if sig.Verify(r.digest.Bytes(), r.key.Group.Y.ToPublicKey()) {
		return protocol.Output[[]byte, ShareID](sig.Serialize()), nil
	}

	// sⱼ⋅R = m⋅Rⱼ + r⋅Sⱼ
	for from, bcast := range bcastsIn.All() {
		lhs := curve.NewIdentityPoint().ScalarMult(bcast.Happy.SI, r.bigR)
		rhs := curve.NewIdentityPoint().ScalarMult(r.digest, r.r5Bcasts.Values()[from.Int()])
		rhs.Add(rhs, curve.NewIdentityPoint().ScalarMult(r.sigR, r.r6Bcasts.Values()[from.Int()]))
		if !lhs.Equal(rhs) {
			if err := fault(from, "s_i"); err != nil {
				return nil, err
			}
		}
	}
	if faulters.IsEmpty() {
		return nil, protocol.Fatalf(*info.Log(), "invalid signature but every s_i is consistent")
	}
	return protocol.Faulty[[]byte](faulters), nil
}
