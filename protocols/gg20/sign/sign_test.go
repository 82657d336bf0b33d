package sign_test

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/internal/rng"
	"github.com/axelarnetwork/tofn-sub002/internal/test"
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/pool"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/keygen"
	"github.com/axelarnetwork/tofn-sub002/protocols/gg20/sign"
)

func digest42() sign.MessageDigest {
	var d sign.MessageDigest
	for i := range d {
		d[i] = 42
	}
	return d
}

func checkSignatures(t *testing.T, share *keygen.SecretKeyShare, digest sign.MessageDigest, dones []*protocol.Done[[]byte, sign.PartyID]) {
	pub, err := btcec.ParsePubKey(share.Group.Y.ToPublicKey().SerializeCompressed())
	require.NoError(t, err)

	for i, done := range dones {
		require.False(t, done.Failed(), "share %d failed", i)
		assert.Equal(t, dones[0].Output, done.Output, "share %d: different signature", i)

		sig, err := btcecdsa.ParseDERSignature(done.Output)
		require.NoError(t, err, "share %d", i)
		assert.True(t, sig.Verify(digest[:], pub), "share %d: invalid signature", i)
	}
}

func TestSign(t *testing.T) {
	if testing.Short() {
		t.Skip("keygen and sign with 10 shares")
	}
	pl := pool.NewPool(0)

	keygens, err := test.NewKeygens([]int{1, 2, 3, 4}, 5, pl)
	require.NoError(t, err)
	keygenDones, err := test.Execute(keygens, nil)
	require.NoError(t, err)
	shares := make([]*keygen.SecretKeyShare, len(keygenDones))
	for i, done := range keygenDones {
		require.False(t, done.Failed(), "keygen share %d failed", i)
		shares[i] = done.Output
	}

	digest := digest42()
	signs, err := test.NewSigns(shares, []int{0, 1, 3}, digest, pl)
	require.NoError(t, err)
	require.Len(t, signs, 7)
	dones, err := test.Execute(signs, nil)
	require.NoError(t, err)
	checkSignatures(t, shares[0], digest, dones)
}

func TestSignDealerShares(t *testing.T) {
	tests := []struct {
		name    string
		counts  []int
		t       int
		parties []int
	}{
		{"single share", []int{1}, 0, []int{0}},
		{"two of three", []int{1, 1, 1}, 1, []int{0, 2}},
		{"multiple shares per party", []int{2, 1, 2}, 2, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if testing.Short() && len(tt.parties) > 1 {
				t.Skip("sign with several shares")
			}
			// reproducible dealer shares per case
			source, err := rng.NewFromSeed([]byte(tt.name))
			require.NoError(t, err)
			shares, err := test.GenerateKeyShares(tt.counts, tt.t, source)
			require.NoError(t, err)

			digest := digest42()
			signs, err := test.NewSigns(shares, tt.parties, digest, nil)
			require.NoError(t, err)
			dones, err := test.Execute(signs, nil)
			require.NoError(t, err)
			checkSignatures(t, shares[0], digest, dones)
		})
	}
}

func TestSignConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("sign with 3 shares")
	}
	shares, err := test.GenerateKeyShares([]int{1, 2, 1}, 2, rand.Reader)
	require.NoError(t, err)

	digest := digest42()
	signs, err := test.NewSigns(shares, []int{1, 2}, digest, pool.NewPool(0))
	require.NoError(t, err)
	dones, err := test.ExecuteConcurrent(context.Background(), signs)
	require.NoError(t, err)
	checkSignatures(t, shares[0], digest, dones)
}

func TestSignMissingP2p(t *testing.T) {
	if testing.Short() {
		t.Skip("sign with 3 shares")
	}
	shares, err := test.GenerateKeyShares([]int{1, 1, 1, 1}, 1, rand.Reader)
	require.NoError(t, err)

	const dropper = 2
	signs, err := test.NewSigns(shares, []int{0, 1, 2}, digest42(), nil)
	require.NoError(t, err)
	dones, err := test.Execute(signs, test.DropP2p{Round: 1, From: dropper, To: 0})
	require.NoError(t, err)

	for i, done := range dones {
		require.True(t, done.Failed(), "share %d should fail", i)
		assert.Equal(t, 1, done.Faulters.SomeCount(), "share %d", i)
		fault, ok, err := done.Faulters.Get(collections.FromInt[sign.PartyID](dropper))
		require.NoError(t, err)
		require.True(t, ok, "share %d: party %d not faulted", i, dropper)
		assert.Equal(t, protocol.MissingMessage, fault)
	}
}

// TestSignBadProof corrupts one proof sent from share 2 to share 0. Share 0 complains and every
// share must then fault party 2 after checking the proof again.
func TestSignBadProof(t *testing.T) {
	tests := []struct {
		name   string
		round  int
		modify func([]byte) ([]byte, error)
	}{
		{"range proof", 1, test.SwapFields([]string{"RangeProof"}, "S1", "S2")},
		{"mta proof", 2, test.SwapFields(nil, "AlphaProof", "MuProof")},
		{"R_i proof", 5, test.SwapFields([]string{"RIProof"}, "Z1", "Z3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if testing.Short() {
				t.Skip("sign with 3 shares")
			}
			source, err := rng.NewFromSeed([]byte("bad proof"))
			require.NoError(t, err)
			shares, err := test.GenerateKeyShares([]int{1, 1, 1}, 1, source)
			require.NoError(t, err)

			const cheater = 2
			signs, err := test.NewSigns(shares, []int{0, 1, 2}, digest42(), nil)
			require.NoError(t, err)
			dones, err := test.Execute(signs, test.ModifyPayload{Round: tt.round, From: cheater, To: 0, Modify: tt.modify})
			require.NoError(t, err)

			for i, done := range dones {
				require.True(t, done.Failed(), "share %d should fail", i)
				assert.Equal(t, 1, done.Faulters.SomeCount(), "share %d", i)
				fault, ok, err := done.Faulters.Get(collections.FromInt[sign.PartyID](cheater))
				require.NoError(t, err)
				require.True(t, ok, "share %d: party %d not faulted", i, cheater)
				assert.Equal(t, protocol.ProtocolFault, fault)
			}
		})
	}
}

// requireOnlyFaulter checks that every share ended with party as its single faulter.
func requireOnlyFaulter(t *testing.T, dones []*protocol.Done[[]byte, sign.PartyID], party int, want protocol.Fault) {
	t.Helper()
	for i, done := range dones {
		require.True(t, done.Failed(), "share %d should fail", i)
		assert.Equal(t, 1, done.Faulters.SomeCount(), "share %d", i)
		fault, ok, err := done.Faulters.Get(collections.FromInt[sign.PartyID](party))
		require.NoError(t, err)
		require.True(t, ok, "share %d: party %d not faulted", i, party)
		assert.Equal(t, want, fault, "share %d", i)
	}
}

// TestSignType5 broadcasts a wrong δᵢ from share 1. Every proof verifies, so the shares only notice
// that ∑ Rᵢ ≠ G and have to open kᵢ and γᵢ to find out who lied.
func TestSignType5(t *testing.T) {
	if testing.Short() {
		t.Skip("sign with 3 shares")
	}
	source, err := rng.NewFromSeed([]byte("type 5"))
	require.NoError(t, err)
	shares, err := test.GenerateKeyShares([]int{1, 1, 1}, 1, source)
	require.NoError(t, err)

	const cheater = 1
	signs, err := test.NewSigns(shares, []int{0, 1, 2}, digest42(), nil)
	require.NoError(t, err)
	dones, err := test.Execute(signs, test.ModifyPayload{
		Round:  3,
		From:   cheater,
		To:     -1,
		Modify: test.SetField([]string{"Happy"}, "DeltaI", sample.Scalar(source)),
	})
	require.NoError(t, err)
	requireOnlyFaulter(t, dones, cheater, protocol.ProtocolFault)
}

// TestSignType7 runs share 1 with a wrong σᵢ that it consistently commits to and proves.
// The shares notice that ∑ Sᵢ ≠ y and have to open kᵢ and the μᵢⱼ to find out who lied.
func TestSignType7(t *testing.T) {
	if testing.Short() {
		t.Skip("sign with 3 shares")
	}
	source, err := rng.NewFromSeed([]byte("type 7"))
	require.NoError(t, err)
	shares, err := test.GenerateKeyShares([]int{1, 1, 1}, 1, source)
	require.NoError(t, err)

	const cheater = 1
	signs, err := test.NewSigns(shares, []int{0, 1, 2}, digest42(), nil)
	require.NoError(t, err)
	parties := collections.NewSubset[keygen.PartyID](3)
	for p := 0; p < 3; p++ {
		require.NoError(t, parties.Add(collections.FromInt[keygen.PartyID](p)))
	}
	signs[cheater], err = sign.NewWithSigmaOffset(sign.Config{
		SecretKeyShare: shares[cheater],
		Parties:        parties,
		Digest:         digest42(),
		Logger:         zerolog.Nop(),
	}, sample.Scalar(source))
	require.NoError(t, err)

	dones, err := test.Execute(signs, nil)
	require.NoError(t, err)
	requireOnlyFaulter(t, dones, cheater, protocol.ProtocolFault)
}

func TestConfigValidate(t *testing.T) {
	shares, err := test.GenerateKeyShares([]int{2, 3}, 2, rand.Reader)
	require.NoError(t, err)

	subset := func(size int, members ...int) collections.Subset[keygen.PartyID] {
		s := collections.NewSubset[keygen.PartyID](size)
		for _, m := range members {
			require.NoError(t, s.Add(collections.FromInt[keygen.PartyID](m)))
		}
		return s
	}
	valid := func() sign.Config {
		return sign.Config{
			SecretKeyShare: shares[0],
			Parties:        subset(2, 0, 1),
			Digest:         digest42(),
			Logger:         zerolog.Nop(),
		}
	}

	tests := []struct {
		name   string
		modify func(*sign.Config)
		errors int
	}{
		{"valid", func(*sign.Config) {}, 0},
		{"missing key share", func(c *sign.Config) { c.SecretKeyShare = nil }, 1},
		{"subset of wrong size", func(c *sign.Config) { c.Parties = subset(3, 0, 1) }, 1},
		{"not a signing party", func(c *sign.Config) { c.Parties = subset(2, 1) }, 1},
		{"too few shares", func(c *sign.Config) { c.Parties = subset(2, 0) }, 1},
		{"no parties", func(c *sign.Config) { c.Parties = subset(2) }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			err := c.Validate()
			if tt.errors == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Len(t, multierrorErrors(err), tt.errors)

			_, err = sign.New(c)
			assert.ErrorIs(t, err, protocol.ErrFatal)
		})
	}
}

func multierrorErrors(err error) []error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []error{err}
	}
	return merr.Errors
}
