// Package mta implements the multiplicative-to-additive share conversion on top of Paillier.
//
// The initiator publishes K = Enc(k) under its own key. The responder holding x answers with
// D = x⊙K ⊕ Enc(β'; ρ), so that Dec(D) - β' = k⋅x (mod q).
package mta

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
	"github.com/axelarnetwork/tofn-sub002/pkg/zk"
	zkaffg "github.com/axelarnetwork/tofn-sub002/pkg/zk/affg"
)

// BetaBound is q⁵, the bound on the blinding plaintext β'.
var BetaBound = zk.Q3Times(new(saferith.Nat).Mul(zk.Q(), zk.Q(), -1))

// Secret is what the responder keeps. Its additive share is -β' (mod q).
type Secret struct {
	BetaPrime  *saferith.Nat
	Randomness *saferith.Nat
}

// Share returns -β' (mod q).
func (s Secret) Share() *curve.Scalar {
	b := curve.NewScalar().SetNat(s.BetaPrime)
	return b.Negate(b)
}

// Opens returns true if D = x⊙K ⊕ Enc(β'; ρ) under ek, with β' < q⁵.
func (s Secret) Opens(ek *paillier.PublicKey, K, D *paillier.Ciphertext, x *curve.Scalar) bool {
	if s.BetaPrime == nil || s.Randomness == nil || x == nil {
		return false
	}
	if !arith.IsInRange(BetaBound, s.BetaPrime) || !arith.IsValidNatModN(ek.N(), s.Randomness) {
		return false
	}
	if !ek.ValidateCiphertexts(K, D) {
		return false
	}
	d := K.Clone().Mul(ek, x.Nat()).Add(ek, ek.EncWithNonce(s.BetaPrime, s.Randomness))
	return d.Equal(D)
}

// Plaintext is what the initiator decrypts, with the randomness that opens the response.
// Its additive share is α (mod q).
type Plaintext struct {
	Plaintext  *saferith.Nat
	Randomness *saferith.Nat
}

// Share returns α (mod q).
func (p Plaintext) Share() *curve.Scalar {
	return curve.NewScalar().SetNat(p.Plaintext)
}

// Opens returns true if D = Enc(α; r) under ek.
func (p Plaintext) Opens(ek *paillier.PublicKey, D *paillier.Ciphertext) bool {
	if p.Plaintext == nil || p.Randomness == nil {
		return false
	}
	if !arith.IsInRange(ek.NNat(), p.Plaintext) || !arith.IsValidNatModN(ek.N(), p.Randomness) {
		return false
	}
	return ek.EncWithNonce(p.Plaintext, p.Randomness).Equal(D)
}

// Respond returns D = x⊙K ⊕ Enc(β'; ρ) together with the responder's secret.
func Respond(rand io.Reader, ek *paillier.PublicKey, K *paillier.Ciphertext, x *curve.Scalar) (*paillier.Ciphertext, Secret) {
	betaPrime := sample.Below(rand, BetaBound)
	d, rho := ek.Enc(rand, betaPrime)
	d.Add(ek, K.Clone().Mul(ek, x.Nat()))
	return d, Secret{BetaPrime: betaPrime, Randomness: rho}
}

// Prove responds to K and proves that D was formed correctly, using the initiator's zk setup aux.
// If X is not nil the proof also shows that X = x⋅G.
func Prove(rand io.Reader, h *hash.Hash, ek *paillier.PublicKey, aux *pedersen.Parameters, K *paillier.Ciphertext, x *curve.Scalar, X *curve.Point) (*paillier.Ciphertext, *zkaffg.Proof, Secret) {
	d, secret := Respond(rand, ek, K, x)
	proof := zkaffg.NewProof(rand, h, zkaffg.Public{
		C:        K,
		D:        d,
		X:        X,
		Verifier: ek,
		Aux:      aux,
	}, zkaffg.Private{X: x, Y: secret.BetaPrime, Rho: secret.Randomness})
	return d, proof, secret
}

// Verify checks a response D to K and its proof. X must be nil if the proof was made without check.
func Verify(h *hash.Hash, ek *paillier.PublicKey, aux *pedersen.Parameters, K, D *paillier.Ciphertext, X *curve.Point, proof *zkaffg.Proof) bool {
	if !ek.ValidateCiphertexts(K, D) {
		return false
	}
	return proof.Verify(h, zkaffg.Public{
		C:        K,
		D:        D,
		X:        X,
		Verifier: ek,
		Aux:      aux,
	})
}

// Decrypt opens a response with the initiator's key.
func Decrypt(dk *paillier.SecretKey, D *paillier.Ciphertext) (Plaintext, error) {
	alpha, r, err := dk.DecWithRandomness(D)
	if err != nil {
		return Plaintext{}, err
	}
	return Plaintext{Plaintext: alpha, Randomness: r}, nil
}
