package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/sample"
)

func TestLagrange(t *testing.T) {
	N := 10
	allIDs := make([]int, N)
	for i := range allIDs {
		allIDs[i] = i
	}
	sumEven := curve.NewScalar()
	sumOdd := curve.NewScalar()
	for _, j := range allIDs {
		sumEven.Add(sumEven, Lagrange(allIDs, j))
	}
	for _, j := range allIDs[:N-1] {
		sumOdd.Add(sumOdd, Lagrange(allIDs[:N-1], j))
	}
	assert.True(t, sumEven.Equal(curve.NewScalarUInt32(1)))
	assert.True(t, sumOdd.Equal(curve.NewScalarUInt32(1)))
}

func TestInterpolate(t *testing.T) {
	secret := sample.Scalar(rand.Reader)
	poly := NewPolynomial(rand.Reader, 3, secret)

	tests := []struct {
		name    string
		indices []int
		want    bool
	}{
		{"threshold+1 shares", []int{0, 2, 5, 7}, true},
		{"all shares", []int{0, 1, 2, 3, 4, 5, 6, 7}, true},
		{"threshold shares", []int{1, 4, 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := make(map[int]*curve.Scalar, len(tt.indices))
			for _, i := range tt.indices {
				shares[i] = poly.EvaluateAt(i)
			}
			assert.Equal(t, tt.want, Interpolate(shares).Equal(secret))
		})
	}
}
