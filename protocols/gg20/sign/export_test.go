package sign

import "github.com/axelarnetwork/tofn-sub002/pkg/math/curve"

// NewWithSigmaOffset is New for a share whose σᵢ is off by offset. All of its proofs stay valid,
// so only the type 7 reveal can catch it.
func NewWithSigmaOffset(c Config, offset *curve.Scalar) (Protocol, error) {
	c.sigmaOffset = offset
	return New(c)
}
