package keygen

import (
	"io"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/polynomial"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	zkmod "github.com/axelarnetwork/tofn-sub002/pkg/zk/mod"
	zkprm "github.com/axelarnetwork/tofn-sub002/pkg/zk/prm"
)

type round1 struct {
	rand      io.Reader
	pool      *pool.Pool
	threshold int
	psc       PartyShareCounts

	ek *paillier.PublicKey
	dk *paillier.SecretKey

	// uᵢ(X) of degree t, uᵢ(0) = uᵢ
	poly *polynomial.Polynomial
	// yᵢ = uᵢ⋅G
	yI *curve.Point
	// Decommitment to yᵢ
	yIReveal hash.Decommitment
}

type bcast1 struct {
	YICommit     hash.Commitment
	EK           *paillier.PublicKey
	EKProof      *zkmod.Proof
	ZkSetup      *pedersen.Parameters
	ZkSetupProof *zkprm.Proof
}

func yICommitHash() *hash.Hash {
	return hash.New(params.TagYICommit)
}

// start samples uᵢ and its VSS polynomial, and broadcasts a commitment to yᵢ = uᵢ⋅G
// along with this party's encryption key and zk setup.
func start(c *Config, me collections.TypedIndex[ShareID]) (builder, error) {
	u := sample.Scalar(c.Rand)
	poly := polynomial.NewPolynomial(c.Rand, c.Threshold, u)
	yI := u.ActOnBase()

	commit, reveal, err := yICommitHash().Commit(c.Rand, me.Int(), yI)
	if err != nil {
		return nil, protocol.Fatalf(c.Logger, "keygen: commit to y_i: %v", err)
	}

	dk := c.KeyPair.DK
	ekProof := zkmod.NewProof(c.Rand, ekProofHash(me),
		zkmod.Private{P: dk.P(), Q: dk.Q(), Phi: dk.Phi()},
		zkmod.Public{N: c.KeyPair.EK.N()}, c.Pool)

	bcast, err := protocol.Serialize(bcast1{
		YICommit:     commit,
		EK:           c.KeyPair.EK,
		EKProof:      ekProof,
		ZkSetup:      c.ZkSetup.ZkSetup,
		ZkSetupProof: c.ZkSetup.Proof,
	})
	if err != nil {
		return nil, err
	}

	return protocol.NewBcastOnly[*SecretKeyShare, ShareID, bcast1](&round2{
		round1: &round1{
			rand:      c.Rand,
			pool:      c.Pool,
			threshold: c.Threshold,
			psc:       c.PartyShareCounts,
			ek:        c.KeyPair.EK,
			dk:        dk,
			poly:      poly,
			yI:        yI,
			yIReveal:  reveal,
		},
	}, bcast), nil
}
