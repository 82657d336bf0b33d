package protocol

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

func subsetOf(t *testing.T, size int, members ...int) collections.Subset[testParty] {
	t.Helper()
	s := collections.NewSubset[testParty](size)
	for _, m := range members {
		require.NoError(t, s.Add(collections.FromInt[testParty](m)))
	}
	return s
}

func TestShareIDSubset(t *testing.T) {
	tests := []struct {
		counts  []int
		parties []int
		want    []int
	}{
		{[]int{1, 1, 1, 1}, []int{0, 2}, []int{0, 2}},
		{[]int{1, 1, 1, 2}, []int{0, 3}, []int{0, 3, 4}},
		{[]int{2, 1, 4, 1}, []int{0, 2}, []int{0, 1, 3, 4, 5, 6}},
		{[]int{2, 0, 1}, []int{1}, nil},
	}
	for _, tt := range tests {
		psc, err := NewPartyShareCounts[testParty](tt.counts)
		require.NoError(t, err)
		got, err := ShareIDSubset[testShare](psc, subsetOf(t, len(tt.counts), tt.parties...))
		require.NoError(t, err)
		var ints []int
		for _, id := range got {
			ints = append(ints, id.Int())
		}
		assert.Equal(t, tt.want, ints, "counts %v parties %v", tt.counts, tt.parties)
	}

	psc, err := NewPartyShareCounts[testParty]([]int{1, 1})
	require.NoError(t, err)
	_, err = ShareIDSubset[testShare](psc, subsetOf(t, 3))
	assert.ErrorIs(t, err, ErrFatal)
}

func TestShareToParty(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{2, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, 5, psc.TotalShareCount())
	assert.Equal(t, 3, psc.PartyCount())

	tests := []struct {
		share, party, subshare int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 2, 0},
		{4, 2, 2},
	}
	for _, tt := range tests {
		party, subshare, err := ShareToPartySubshareIDs[testShare](psc, collections.FromInt[testShare](tt.share))
		require.NoError(t, err)
		assert.Equal(t, tt.party, party.Int())
		assert.Equal(t, tt.subshare, subshare)

		share, err := PartyToShareID[testShare](psc, party, subshare)
		require.NoError(t, err)
		assert.Equal(t, tt.share, share.Int())
	}

	_, err = ShareToPartyID[testShare](psc, collections.FromInt[testShare](5))
	assert.ErrorIs(t, err, ErrFatal)
	_, err = PartyToShareID[testShare](psc, collections.FromInt[testParty](1), 0)
	assert.ErrorIs(t, err, ErrFatal)
	_, err = PartyToShareID[testShare](psc, collections.FromInt[testParty](3), 0)
	assert.ErrorIs(t, err, ErrFatal)

	ids, err := PartyToShareIDs[testShare](psc, collections.FromInt[testParty](2))
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, 2, ids[0].Int())
	assert.Equal(t, 4, ids[2].Int())
}

func TestShareToPartyFaults(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{1, 3, 1})
	require.NoError(t, err)

	shareFaults := collections.NewFillVecMap[testShare, Fault](5)
	require.NoError(t, shareFaults.Set(collections.FromInt[testShare](1), MissingMessage))
	require.NoError(t, shareFaults.Set(collections.FromInt[testShare](3), ProtocolFault))
	require.NoError(t, shareFaults.Set(collections.FromInt[testShare](4), CorruptedMessage))

	partyFaults, err := ShareToPartyFaults[testShare](psc, shareFaults)
	require.NoError(t, err)
	assert.Equal(t, 2, partyFaults.SomeCount())

	none, err := partyFaults.IsNone(collections.FromInt[testParty](0))
	require.NoError(t, err)
	assert.True(t, none)

	// the highest faulty share of a party wins
	fault, ok, err := partyFaults.Get(collections.FromInt[testParty](1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ProtocolFault, fault)

	fault, ok, err = partyFaults.Get(collections.FromInt[testParty](2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, CorruptedMessage, fault)
}

func TestPartyShareCountsBounds(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		ok     bool
	}{
		{"empty", nil, true},
		{"negative", []int{1, -1}, false},
		{"maximum", []int{MaxTotalShareCount}, true},
		{"party too large", []int{MaxPartyShareCount + 1}, false},
		{"total too large", []int{MaxTotalShareCount / 2, MaxTotalShareCount/2 + 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPartyShareCounts[testParty](tt.counts)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrFatal)
			}
		})
	}
}

func TestPartyShareCountsCBOR(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{3, 1})
	require.NoError(t, err)
	data, err := cbor.Marshal(psc)
	require.NoError(t, err)
	var decoded PartyShareCounts[testParty]
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Equal(t, []int{3, 1}, decoded.Counts())
	assert.Equal(t, 4, decoded.TotalShareCount())

	bad, err := cbor.Marshal([]int{MaxTotalShareCount, 1})
	require.NoError(t, err)
	assert.Error(t, cbor.Unmarshal(bad, &decoded))

	subset, err := psc.Subset(subsetOf(t, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, subset)
}
