package keygen

import (
	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/polynomial"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zksch "github.com/axelarnetwork/tofn-sub002/pkg/zk/sch"
)

type round3 struct {
	*round2

	r1Bcasts collections.VecMap[ShareID, bcast1]
	// uᵢ(i+1)
	myShare *curve.Scalar
}

// bcast3 carries exactly one of Happy or Sad.
type bcast3 struct {
	Happy *bcast3Happy `cbor:",omitempty"`
	Sad   *bcast3Sad   `cbor:",omitempty"`
}

type bcast3Happy struct {
	// proof of knowledge of xᵢ
	XIProof *zksch.Proof
}

type bcast3Sad struct {
	VssComplaints []vssComplaint
}

// vssComplaint reveals the decryption of the share received from Accused.
// Plaintext and Randomness are nil if the ciphertext could not be decrypted.
type vssComplaint struct {
	Accused    collections.TypedIndex[ShareID]
	Plaintext  *saferith.Nat `cbor:",omitempty"`
	Randomness *saferith.Nat `cbor:",omitempty"`
}

func schnorrHash(share collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewBcastHash(params.TagSchnorrProof, share.Int())
}

// Execute checks the reveals of yⱼ and the received shares.
// If every share is valid it computes xᵢ and proves knowledge of it, otherwise it complains.
func (r *round3) Execute(info *protocol.Info[ShareID], bcastsIn collections.VecMap[ShareID, bcast2], p2psIn collections.FullP2ps[ShareID, p2p2]) (builder, error) {
	me := info.MyID()

	faulters := collections.NewFillVecMap[ShareID, protocol.Fault](info.TotalShareCount())
	for from, bcast := range bcastsIn.All() {
		if from == me {
			continue
		}
		r1Bcast, err := r.r1Bcasts.Get(from)
		if err != nil {
			return nil, err
		}
		var fault string
		switch {
		case bcast.UIVssCommit == nil || bcast.UIVssCommit.Degree() != r.threshold:
			fault = "vss commitment degree"
		case !yICommitHash().Decommit(r1Bcast.YICommit, bcast.YIReveal, from.Int(), bcast.UIVssCommit.Constant()):
			fault = "y_i reveal"
		}
		if fault != "" {
			info.LogFault(from, fault)
			if err := faulters.Set(from, protocol.ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return protocol.Faulty[*SecretKeyShare](faulters), nil
	}

	toMe, err := p2psIn.ToMe(me)
	if err != nil {
		return nil, err
	}
	var complaints []vssComplaint
	received := make([]*curve.Scalar, 0, info.TotalShareCount())
	for from, p2p := range toMe {
		plaintext, randomness, err := r.dk.DecWithRandomness(p2p.UIShareCiphertext)
		if err != nil {
			info.LogAccuse(from, "undecryptable share")
			complaints = append(complaints, vssComplaint{Accused: from})
			continue
		}
		bcast, err := bcastsIn.Get(from)
		if err != nil {
			return nil, err
		}
		if !validShare(bcast.UIVssCommit, me, plaintext) {
			info.LogAccuse(from, "invalid vss share")
			complaints = append(complaints, vssComplaint{Accused: from, Plaintext: plaintext, Randomness: randomness})
			continue
		}
		received = append(received, curve.NewScalar().SetNat(plaintext))
	}

	if len(complaints) > 0 {
		bcast, err := protocol.Serialize(bcast3{Sad: &bcast3Sad{VssComplaints: complaints}})
		if err != nil {
			return nil, err
		}
		return protocol.NewRound[*SecretKeyShare, ShareID, bcast3, struct{}](&round4{
			round3:   r,
			r2Bcasts: bcastsIn,
			r2P2ps:   p2psIn,
		}, bcast, nil), nil
	}

	// xᵢ = ∑ⱼ uⱼ(i+1)
	xI := curve.NewScalar().Set(r.myShare)
	for _, share := range received {
		xI.Add(xI, share)
	}

	commits := make([]*polynomial.Exponent, 0, bcastsIn.Len())
	for _, bcast := range bcastsIn.All() {
		commits = append(commits, bcast.UIVssCommit)
	}
	// U(X) = ∑ⱼ Uⱼ(X), so that Y = U(0) and Xⱼ = U(j+1)
	summed, err := polynomial.Sum(commits)
	if err != nil {
		return nil, protocol.Fatalf(*info.Log(), "sum vss commitments: %v", err)
	}
	allX := make([]*curve.Point, info.TotalShareCount())
	for i := range allX {
		allX[i] = summed.EvaluateAt(i)
	}

	if !allX[me.Int()].Equal(xI.ActOnBase()) {
		return nil, protocol.Fatalf(*info.Log(), "my x_i does not match the vss commitments")
	}

	proof := zksch.NewProof(r.rand, schnorrHash(me), allX[me.Int()], xI)
	bcast, err := protocol.Serialize(bcast3{Happy: &bcast3Happy{XIProof: proof}})
	if err != nil {
		return nil, err
	}

	return protocol.NewRound[*SecretKeyShare, ShareID, bcast3, struct{}](&round4{
		round3:   r,
		r2Bcasts: bcastsIn,
		r2P2ps:   p2psIn,
		xI:       xI,
		y:        curve.NewIdentityPoint().Set(summed.Constant()),
		allX:     collections.NewVecMap[ShareID](allX),
	}, bcast, nil), nil
}

// validShare reports whether plaintext, received by share to, is a scalar matching commit.
func validShare(commit *polynomial.Exponent, to collections.TypedIndex[ShareID], plaintext *saferith.Nat) bool {
	if !arith.IsInRange(curve.Order().Nat(), plaintext) {
		return false
	}
	share := curve.NewScalar().SetNat(plaintext)
	return share.ActOnBase().Equal(commit.EvaluateAt(to.Int()))
}
