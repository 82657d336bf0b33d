package zk

import (
	"crypto/rand"
	"sync"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
)

// Fixture holds a Paillier key and a Pedersen setup for proof tests.
type Fixture struct {
	Paillier *paillier.SecretKey
	// Pedersen is built on a second modulus, whose factorization is PedersenSecret.
	Pedersen       *pedersen.Parameters
	PedersenSecret *paillier.SecretKey
	// Lambda is such that s = tˡ.
	Lambda *saferith.Nat
}

var (
	fixtureOnce sync.Once
	prover      *Fixture
	verifier    *Fixture
)

func newFixture() *Fixture {
	_, sk := paillier.KeyGenUnsafe(rand.Reader)
	_, pedSk := paillier.KeyGenUnsafe(rand.Reader)
	ped, lambda := pedSk.GeneratePedersen(rand.Reader)
	return &Fixture{
		Paillier:       sk,
		Pedersen:       ped,
		PedersenSecret: pedSk,
		Lambda:         lambda,
	}
}

// Fixtures returns a prover and a verifier fixture, generated once with unsafe primes.
// They must only be used in tests.
func Fixtures() (*Fixture, *Fixture) {
	fixtureOnce.Do(func() {
		prover, verifier = newFixture(), newFixture()
	})
	return prover, verifier
}
