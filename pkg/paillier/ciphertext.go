package paillier

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
)

// Ciphertext represents an integer of the form
//
//	ct = (1+N)ᵐρᴺ (mod N²),
//
// representing the encryption of m ∈ ℤₙ.
type Ciphertext struct {
	c *saferith.Nat
}

// Add sets ct to the homomorphic sum ct ⊕ ct₂.
// ct ← ct•ct₂ (mod N²).
func (ct *Ciphertext) Add(pk *PublicKey, ct2 *Ciphertext) *Ciphertext {
	if ct2 == nil {
		return ct
	}

	ct.c.ModMul(ct.c, ct2.c, pk.nSquared.Modulus)

	return ct
}

// Mul sets ct to the homomorphic multiplication of k ⊙ ct.
// ct ← ctᵏ (mod N²).
func (ct *Ciphertext) Mul(pk *PublicKey, k *saferith.Nat) *Ciphertext {
	if k == nil {
		return ct
	}

	ct.c = pk.nSquared.Exp(ct.c, k)

	return ct
}

// Equal check whether ct ≡ ctₐ (mod N²).
func (ct *Ciphertext) Equal(ctA *Ciphertext) bool {
	return ct.c.Eq(ctA.c) == 1
}

// Clone returns a deep copy of ct.
func (ct Ciphertext) Clone() *Ciphertext {
	c := new(saferith.Nat)
	c.SetNat(ct.c)
	return &Ciphertext{c: c}
}

// Randomize multiplies the ciphertext's nonce by a newly generated one.
// ct ← ct ⋅ nonceᴺ (mod N²).
// If nonce is nil, a random one is generated.
// The receiver is updated, and the nonce update is returned.
func (ct *Ciphertext) Randomize(rand io.Reader, pk *PublicKey, nonce *saferith.Nat) *saferith.Nat {
	if nonce == nil {
		nonce = sample.UnitModN(rand, pk.n.Modulus)
	}
	// c = c*r^N
	tmp := pk.nSquared.Exp(nonce, pk.nNat)
	ct.c.ModMul(ct.c, tmp, pk.nSquared.Modulus)
	return nonce
}

// Nat converts this ciphertext to a Nat.
func (ct *Ciphertext) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(ct.c)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct == nil || ct.c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	buf := make([]byte, params.BytesCiphertext)
	ct.c.FillBytes(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}
