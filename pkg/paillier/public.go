package paillier

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
)

var (
	ErrPaillierLength = errors.New("wrong number bit length of Paillier modulus N")
	ErrPaillierEven   = errors.New("modulus N is even")
	ErrPaillierNil    = errors.New("modulus N is nil")
)

// PublicKey is a Paillier public key, called an encryption key. It is the modulus N = p⋅q.
type PublicKey struct {
	// n = p⋅q
	n *arith.Modulus
	// nSquared = n²
	nSquared *arith.Modulus

	// These values are cached out of convenience, and performance
	nNat *saferith.Nat
	// nPlusOne = n + 1
	nPlusOne *saferith.Nat
}

// N is the public modulus making up this key.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.Modulus
}

// NNat returns N as a Nat.
func (pk *PublicKey) NNat() *saferith.Nat {
	return pk.nNat
}

// N2 returns N².
func (pk *PublicKey) N2() *saferith.Modulus {
	return pk.nSquared.Modulus
}

// Modulus returns an arith.Modulus for N which may allow for accelerated exponentiation when this
// public key was generated ourselves.
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// NewPublicKey returns an encryption key with the given modulus.
func NewPublicKey(n *saferith.Modulus) *PublicKey {
	oneNat := new(saferith.Nat).SetUint64(1)
	nNat := n.Nat()
	nSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1))
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public
	nPlusOne.Resize(nPlusOne.TrueLen())

	return &PublicKey{
		n:        arith.ModulusFromN(n),
		nSquared: arith.ModulusFromN(nSquared),
		nNat:     nNat,
		nPlusOne: nPlusOne,
	}
}

// ValidateN performs basic checks to make sure the modulus is valid:
// - log₂(n) = params.BitsPaillier.
// - n is odd.
func ValidateN(n *saferith.Modulus) error {
	if n == nil {
		return ErrPaillierNil
	}
	// log₂(N) = BitsPaillier
	if bits := n.BitLen(); bits < params.BitsPaillierMin || bits > params.BitsPaillier {
		return fmt.Errorf("have: %d, need %d: %w", bits, params.BitsPaillier, ErrPaillierLength)
	}
	if n.Nat().Byte(0)&1 != 1 {
		return ErrPaillierEven
	}
	return nil
}

// Enc returns the encryption of m under the public key pk, together with the randomness used.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) Enc(rand io.Reader, m *saferith.Nat) (*Ciphertext, *saferith.Nat) {
	nonce := sample.UnitModN(rand, pk.n.Modulus)
	return pk.EncWithNonce(m, nonce), nonce
}

// EncWithNonce returns the encryption of m under the public key pk, with the given nonce.
// m is reduced mod N.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) EncWithNonce(m, nonce *saferith.Nat) *Ciphertext {
	mModN := new(saferith.Nat).Mod(m, pk.n.Modulus)

	// (1+N)ᵐ = 1 + m⋅N (mod N²)
	c := new(saferith.Nat).ModMul(mModN, pk.nNat, pk.nSquared.Modulus)
	c.ModAdd(c, new(saferith.Nat).SetUint64(1), pk.nSquared.Modulus)

	// ρᴺ (mod N²)
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	c.ModMul(c, rhoN, pk.nSquared.Modulus)

	return &Ciphertext{c: c}
}

// RandomPlaintext samples a uniform element of ℤₙ.
func (pk PublicKey) RandomPlaintext(rand io.Reader) *saferith.Nat {
	return sample.ModN(rand, pk.n.Modulus)
}

// Equal returns true if pk ≡ other.
func (pk PublicKey) Equal(other *PublicKey) bool {
	return pk.nNat.Eq(other.nNat) == 1
}

// ValidateCiphertexts checks if all ciphertexts are in the correct range and coprime to N²
// ct ∈ [1, …, N²-1] AND GCD(ct,N²) = 1.
func (pk PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil || ct.c == nil {
			return false
		}
		_, _, lt := ct.c.CmpMod(pk.nSquared.Modulus)
		if lt != 1 {
			return false
		}
		if ct.c.IsUnit(pk.nSquared.Modulus) != 1 {
			return false
		}
	}
	return true
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	if pk == nil {
		return 0, io.ErrUnexpectedEOF
	}
	buf := make([]byte, params.BytesPaillier)
	pk.nNat.FillBytes(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (PublicKey) Domain() string {
	return "Paillier PublicKey"
}
