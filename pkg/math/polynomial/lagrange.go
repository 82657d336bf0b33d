package polynomial

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
)

// Lagrange returns the Lagrange coefficient at 0 of the share j, for shares with the given 0-based indices.
// Share i is interpolated at the point i+1.
//
// The following formulas are taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
//	                 x₀ ⋅⋅⋅ xₖ
//	lⱼ(0) =	--------------------------------------------------
//	        xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xⱼ₋₁ - xⱼ)⋅(xⱼ₊₁ - xⱼ)⋅⋅⋅(xₖ - xⱼ).
func Lagrange(indices []int, j int) *curve.Scalar {
	xJ := IndexScalar(j)
	tmp := curve.NewScalar()

	numerator := curve.NewScalarUInt32(1)
	denominator := curve.NewScalarUInt32(1)
	for _, i := range indices {
		xI := IndexScalar(i)
		numerator.Multiply(numerator, xI)
		if i == j {
			// lⱼ *= xⱼ
			denominator.Multiply(denominator, xJ)
			continue
		}
		// tmp = xᵢ - xⱼ
		tmp.Subtract(xI, xJ)
		denominator.Multiply(denominator, tmp)
	}

	// lⱼ = numerator/denominator
	lJ := denominator.Invert(denominator)
	return lJ.Multiply(lJ, numerator)
}

// Interpolate recovers f(0) from the shares f(i+1), for every index i in shares.
func Interpolate(shares map[int]*curve.Scalar) *curve.Scalar {
	indices := make([]int, 0, len(shares))
	for i := range shares {
		indices = append(indices, i)
	}
	result := curve.NewScalar()
	tmp := curve.NewScalar()
	for _, i := range indices {
		tmp.Multiply(Lagrange(indices, i), shares[i])
		result.Add(result, tmp)
	}
	return result
}
