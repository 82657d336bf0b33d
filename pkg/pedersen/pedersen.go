package pedersen

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"

	"github.com/axelarnetwork/tofn-sub002/internal/params"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/arith"
)

type Error string

const (
	ErrNilFields    Error = "contains nil field"
	ErrSEqualT      Error = "S cannot be equal to T"
	ErrNotValidModN Error = "S and T must be in [1,…,N-1] and coprime to N"
	ErrModulusSize  Error = "N has the wrong bit length"
)

func (e Error) Error() string {
	return fmt.Sprintf("pedersen: %s", string(e))
}

// Parameters is a ring-Pedersen commitment setup, also used as the verifier's
// setup in range proofs: commitments are sˣtʸ (mod N).
type Parameters struct {
	n    *arith.Modulus
	s, t *saferith.Nat
}

// New returns a new set of Pedersen parameters.
// Assumes ValidateParameters(n, s, t) returns nil.
func New(n *arith.Modulus, s, t *saferith.Nat) *Parameters {
	return &Parameters{
		s: s,
		t: t,
		n: n,
	}
}

// ValidateParameters check n, s and t, and returns an error if any of the following is true:
// - n, s, or t is nil.
// - n does not have the size of a Paillier modulus.
// - s, t are not in [1, …,n-1].
// - s, t are not coprime to N.
// - s = t.
func ValidateParameters(n *saferith.Modulus, s, t *saferith.Nat) error {
	if n == nil || s == nil || t == nil {
		return ErrNilFields
	}
	if bits := n.BitLen(); bits < params.BitsPaillierMin || bits > params.BitsPaillier {
		return ErrModulusSize
	}
	// s, t ∈ ℤₙˣ
	if !arith.IsValidNatModN(n, s, t) {
		return ErrNotValidModN
	}
	// s ≡ t
	if _, eq, _ := s.Cmp(t); eq == 1 {
		return ErrSEqualT
	}
	return nil
}

// N = p•q, p ≡ q ≡ 3 mod 4.
func (p Parameters) N() *saferith.Modulus { return p.n.Modulus }

// NArith returns the arith.Modulus of N, which may know the factorization.
func (p Parameters) NArith() *arith.Modulus { return p.n }

// S = Tˡ mod N.
func (p Parameters) S() *saferith.Nat { return p.s }

// T = r² mod N.
func (p Parameters) T() *saferith.Nat { return p.t }

// Commit computes sˣ tʸ (mod N)
//
// The commitment hides x and y, and can be safely shared.
func (p Parameters) Commit(x, y *saferith.Nat) *saferith.Nat {
	return p.n.MulExp(p.s, x, p.t, y)
}

// Verify returns true if sᵃ tᵇ ≡ S Tᵉ (mod N).
func (p Parameters) Verify(a, b, e, S, T *saferith.Nat) bool {
	if a == nil || b == nil || S == nil || T == nil || e == nil {
		return false
	}
	nMod := p.n.Modulus
	if !arith.IsValidNatModN(nMod, S, T) {
		return false
	}

	lhs := p.n.MulExp(p.s, a, p.t, b) // lhs = sᵃ⋅tᵇ (mod N)

	te := p.n.Exp(T, e)           // Tᵉ (mod N)
	rhs := te.ModMul(te, S, nMod) // rhs = S⋅Tᵉ (mod N)
	return lhs.Eq(rhs) == 1
}

// Equal returns true if p and other describe the same setup.
func (p *Parameters) Equal(other *Parameters) bool {
	return p.n.Nat().Eq(other.n.Nat()) == 1 && p.s.Eq(other.s) == 1 && p.t.Eq(other.t) == 1
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Parameters) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, io.ErrUnexpectedEOF
	}
	nAll := int64(0)
	buf := make([]byte, params.BytesIntModN)

	// write N, S, T
	for _, i := range []*saferith.Nat{p.n.Nat(), p.s, p.t} {
		i.FillBytes(buf)
		n, err := w.Write(buf)
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (Parameters) Domain() string {
	return "Pedersen Parameters"
}

type parametersCBOR struct {
	N []byte `cbor:"1,keyasint"`
	S []byte `cbor:"2,keyasint"`
	T []byte `cbor:"3,keyasint"`
}

func (p *Parameters) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(parametersCBOR{
		N: p.n.Nat().Bytes(),
		S: p.s.Bytes(),
		T: p.t.Bytes(),
	})
}

// UnmarshalBinary restores the parameters and checks them with ValidateParameters.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var x parametersCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	n := saferith.ModulusFromBytes(x.N)
	s := new(saferith.Nat).SetBytes(x.S)
	t := new(saferith.Nat).SetBytes(x.T)
	if err := ValidateParameters(n, s, t); err != nil {
		return err
	}
	*p = *New(arith.ModulusFromN(n), s, t)
	return nil
}
