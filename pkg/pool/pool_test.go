package pool

import (
	"bytes"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	for _, p := range []*Pool{nil, NewPool(4)} {
		var ctr atomic.Int64
		results := Search(p, 3, func() (int64, bool) {
			n := ctr.Add(1)
			return n, n%5 == 0
		})
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Zero(t, r%5)
		}
	}
}

func TestParallelize(t *testing.T) {
	for _, p := range []*Pool{nil, NewPool(0)} {
		results := Parallelize(p, 10, func(i int) int { return i * i })
		for i, r := range results {
			assert.Equal(t, i*i, r)
		}
	}
}

func TestLockedReader(t *testing.T) {
	r := NewLockedReader(bytes.NewReader([]byte{1, 2, 3}))
	out := make([]byte, 3)
	_, err := io.ReadFull(r, out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out)
}
