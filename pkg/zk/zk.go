// Package zk holds the helpers shared by the zero-knowledge proofs in its sub packages.
//
// Every proof is made non-interactive with a blake3 transcript, started with NewHash so that
// a proof is bound to its domain-separation tag, and to the prover and verifier shares.
package zk

import (
	"github.com/cronokirby/saferith"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/hash"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
)

var (
	q  = curve.Order().Nat()
	q3 = new(saferith.Nat).Mul(q, new(saferith.Nat).Mul(q, q, -1), -1)
)

// NewHash returns a transcript for a proof of type tag, created by the share prover for the share verifier.
func NewHash(tag params.Tag, prover, verifier int) *hash.Hash {
	h := hash.New(tag)
	_ = h.WriteAny(prover, verifier)
	return h
}

// NewBcastHash returns a transcript for a proof of type tag that prover broadcasts to every share.
func NewBcastHash(tag params.Tag, prover int) *hash.Hash {
	h := hash.New(tag)
	_ = h.WriteAny(prover)
	return h
}

// Challenge reads the Fiat-Shamir challenge e ∈ ℤq from the transcript.
func Challenge(h *hash.Hash) *curve.Scalar {
	return curve.NewScalar().SetHash(h.Sum())
}

// Q returns the order q of the curve as a Nat.
func Q() *saferith.Nat {
	return q
}

// Q3 returns q³, the range in which the plaintext responses of range proofs must lie.
func Q3() *saferith.Nat {
	return q3
}

// QTimes returns q⋅n.
func QTimes(n *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Mul(q, n, -1)
}

// Q3Times returns q³⋅n.
func Q3Times(n *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Mul(q3, n, -1)
}

// IsInQ3 returns true if 0 ≤ x ≤ q³.
func IsInQ3(x *saferith.Nat) bool {
	if x == nil {
		return false
	}
	_, eq, lt := x.Cmp(q3)
	return eq == 1 || lt == 1
}
