package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
)

// DigestLengthBytes is the length of Sum.
const DigestLengthBytes = params.SecBytes // 32

// Hash is the hash function used for Fiat-Shamir challenges and commitments.
//
// Internally, this is a wrapper around blake3, whose extendable output lets proofs
// derive challenges of any length from the transcript.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash whose state is separated by tag.
func New(tag params.Tag) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = hash.WriteAny(BytesWithDomain{TheDomain: "tag", Bytes: []byte{byte(tag)}})
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - int and uint32, used for share indices
//   - *saferith.Nat
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the first types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var toWrite WriterToWithDomain
		switch t := d.(type) {
		case []byte:
			toWrite = BytesWithDomain{TheDomain: "[]byte", Bytes: t}
		case int:
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(t))
			toWrite = BytesWithDomain{TheDomain: "int", Bytes: b[:]}
		case uint32:
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], t)
			toWrite = BytesWithDomain{TheDomain: "uint32", Bytes: b[:]}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toWrite = BytesWithDomain{TheDomain: "saferith.Nat", Bytes: t.Bytes()}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			toWrite = BytesWithDomain{TheDomain: "saferith.Modulus", Bytes: t.Bytes()}
		case WriterToWithDomain:
			toWrite = t
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type %T", d))
		}
		if err := writeWithDomain(hash.h, toWrite); err != nil {
			return fmt.Errorf("hash.Hash: write %T: %w", d, err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
