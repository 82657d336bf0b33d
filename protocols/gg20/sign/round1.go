package sign

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/polynomial"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkenc "github.com/axelarnetwork/tofn-sub002/pkg/zk/enc"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
)

type round1 struct {
	rand io.Reader
	pool *pool.Pool

	key *keygen.SecretKeyShare
	// m, the digest reduced mod q
	digest *curve.Scalar
	// keygen index of every sign share
	keygenIDs collections.VecMap[ShareID, collections.TypedIndex[keygen.ShareID]]
	// Wⱼ = λⱼ⋅Xⱼ for every sign share j
	allW collections.VecMap[ShareID, *curve.Point]

	// wᵢ = λᵢ⋅xᵢ, so that ∑ᵢ wᵢ = x
	wI     *curve.Scalar
	kI     *curve.Scalar
	gammaI *curve.Scalar
	// Γᵢ = γᵢ⋅G
	bigGammaI       *curve.Point
	bigGammaIReveal hash.Decommitment
	// Kᵢ = Encᵢ(kᵢ; kIRandomness)
	kIRandomness *saferith.Nat

	sigmaOffset *curve.Scalar
}

type bcast1 struct {
	GammaICommit hash.Commitment
	KICiphertext *paillier.Ciphertext
}

type p2p1 struct {
	// proof that Kᵢ encrypts a value in ±q³
	RangeProof *zkenc.Proof
}

func gammaICommitHash() *hash.Hash {
	return hash.New(params.TagGammaICommit)
}

func rangeProofHash(prover, verifier collections.TypedIndex[ShareID]) *hash.Hash {
	return zk.NewHash(params.TagRangeProof, prover.Int(), verifier.Int())
}

// public returns the keygen public info of the sign share i.
func (r *round1) public(i collections.TypedIndex[ShareID]) (keygen.SharePublicInfo, error) {
	keygenID, err := r.keygenIDs.Get(i)
	if err != nil {
		return keygen.SharePublicInfo{}, err
	}
	return r.key.Group.Share(keygenID)
}

// start samples kᵢ and γᵢ, commits to Γᵢ and sends Kᵢ to every peer, with a range proof for each.
func start(c *Config, me collections.TypedIndex[ShareID], keygenIDs collections.VecMap[ShareID, collections.TypedIndex[keygen.ShareID]], logger zerolog.Logger) (builder, error) {
	indices := make([]int, 0, keygenIDs.Len())
	for _, id := range keygenIDs.All() {
		indices = append(indices, id.Int())
	}
	allW, err := collections.Map2Result(keygenIDs, func(_ collections.TypedIndex[ShareID], id collections.TypedIndex[keygen.ShareID]) (*curve.Point, error) {
		public, err := c.SecretKeyShare.Group.Share(id)
		if err != nil {
			return nil, err
		}
		return curve.NewIdentityPoint().ScalarMult(polynomial.Lagrange(indices, id.Int()), public.X), nil
	})
	if err != nil {
		return nil, err
	}

	r := &round1{
		rand:      c.Rand,
		pool:      c.Pool,
		key:       c.SecretKeyShare,
		digest:    curve.NewScalar().SetHash(c.Digest[:]),
		keygenIDs: keygenIDs,
		allW:      allW,

		sigmaOffset: c.sigmaOffset,
	}
	lambda := polynomial.Lagrange(indices, c.SecretKeyShare.Share.Index.Int())
	r.wI = curve.NewScalar().Multiply(lambda, c.SecretKeyShare.Share.X)
	r.kI = sample.Scalar(c.Rand)
	r.gammaI, r.bigGammaI = sample.ScalarPointPair(c.Rand)

	commit, reveal, err := gammaICommitHash().Commit(c.Rand, me.Int(), r.bigGammaI)
	if err != nil {
		return nil, protocol.Fatalf(logger, "sign: commit to Gamma_i: %v", err)
	}
	r.bigGammaIReveal = reveal

	mine, err := r.public(me)
	if err != nil {
		return nil, err
	}
	kI, kIRandomness := mine.EK.Enc(c.Rand, r.kI.Nat())
	r.kIRandomness = kIRandomness

	peers, _, err := keygenIDs.PunctureHole(me)
	if err != nil {
		return nil, err
	}
	p2ps, err := collections.MapHoleResult(peers, func(to collections.TypedIndex[ShareID], id collections.TypedIndex[keygen.ShareID]) ([]byte, error) {
		peer, err := c.SecretKeyShare.Group.Share(id)
		if err != nil {
			return nil, err
		}
		proof := zkenc.NewProof(c.Rand, rangeProofHash(me, to), zkenc.Public{
			K:      kI,
			Prover: mine.EK,
			Aux:    peer.ZkSetup,
		}, zkenc.Private{K: r.kI, Rho: kIRandomness})
		return protocol.Serialize(p2p1{RangeProof: proof})
	})
	if err != nil {
		return nil, err
	}

	bcast, err := protocol.Serialize(bcast1{GammaICommit: commit, KICiphertext: kI})
	if err != nil {
		return nil, err
	}
	return protocol.NewBcastAndP2p[[]byte, ShareID, bcast1, p2p1](&round2{round1: r}, bcast, p2ps), nil
}
