package paillier

import (
	"encoding"
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

var (
	_ encoding.BinaryMarshaler   = (*PublicKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
	_ encoding.BinaryMarshaler   = (*SecretKey)(nil)
	_ encoding.BinaryUnmarshaler = (*SecretKey)(nil)
	_ encoding.BinaryMarshaler   = (*Ciphertext)(nil)
	_ encoding.BinaryUnmarshaler = (*Ciphertext)(nil)
)

var ErrCiphertextLength = errors.New("paillier: ciphertext has the wrong length")

func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.nNat.Bytes(), nil
}

// UnmarshalBinary restores a public key from N, and validates N.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	n := saferith.ModulusFromBytes(data)
	if err := ValidateN(n); err != nil {
		return err
	}
	*pk = *NewPublicKey(n)
	return nil
}

type secretKeyCBOR struct {
	P []byte `cbor:"1,keyasint"`
	Q []byte `cbor:"2,keyasint"`
}

func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(secretKeyCBOR{
		P: sk.p.Bytes(),
		Q: sk.q.Bytes(),
	})
}

func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var x secretKeyCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	p := new(saferith.Nat).SetBytes(x.P)
	q := new(saferith.Nat).SetBytes(x.Q)
	if p.EqZero() == 1 || q.EqZero() == 1 {
		return ErrPrimeNil
	}
	*sk = *NewSecretKeyFromPrimes(p, q)
	return nil
}

func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	buf := make([]byte, params.BytesCiphertext)
	ct.c.FillBytes(buf)
	return buf, nil
}

// UnmarshalBinary expects exactly params.BytesCiphertext bytes.
// The range of the ciphertext must still be checked with PublicKey.ValidateCiphertexts.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesCiphertext {
		return ErrCiphertextLength
	}
	ct.c = new(saferith.Nat).SetBytes(data)
	return nil
}
