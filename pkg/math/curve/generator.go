package curve

import (
	"encoding/binary"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"
)

var (
	alternate     *Point
	alternateOnce sync.Once
)

// AlternateGenerator returns a generator H of the secp256k1 group whose discrete log relative to G is unknown.
// H is found by hashing a fixed seed with an increasing counter until the digest is the x coordinate of a point.
func AlternateGenerator() *Point {
	alternateOnce.Do(func() {
		alternate = hashToPoint("secp256k1 alternate generator")
	})
	return NewIdentityPoint().Set(alternate)
}

func hashToPoint(seed string) *Point {
	var ctr [4]byte
	for i := uint32(0); ; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)
		h := blake3.New()
		_, _ = h.WriteString(seed)
		_, _ = h.Write(ctr[:])
		digest := h.Sum(nil)

		var x, y secp256k1.FieldVal
		if overflow := x.SetByteSlice(digest[:32]); overflow {
			continue
		}
		if !secp256k1.DecompressY(&x, false, &y) {
			continue
		}
		y.Normalize()
		var v Point
		v.p.X.Set(&x)
		v.p.Y.Set(&y)
		v.p.Z.SetInt(1)
		return &v
	}
}
