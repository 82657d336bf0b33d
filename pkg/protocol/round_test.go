package protocol

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

func TestToyHappyPath(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
	}{
		{"single share", []int{1}},
		{"one share each", []int{1, 1, 1}},
		{"weighted", []int{1, 2, 3}},
		{"party without shares", []int{2, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs := drive(t, newToys(t, tt.counts, nil), nil)
			for i, out := range outputs {
				require.False(t, out.Failed(), "share %d", i)
				assert.Equal(t, toyExpected(len(outputs), i), out.Output)
			}
		})
	}
}

func TestMissingMessageTakesPrecedence(t *testing.T) {
	var calls atomic.Int32
	counts := []int{1, 2, 3}
	// share 2 belongs to party 1
	outputs := drive(t, newToys(t, counts, &calls), func(round, from, to int, data []byte) ([]byte, bool) {
		return data, !(round == 1 && from == 2)
	})
	assert.Zero(t, calls.Load(), "round executer must not run when a message is missing")
	for i, out := range outputs {
		require.True(t, out.Failed(), "share %d", i)
		assert.Equal(t, 1, out.Faulters.SomeCount())
		fault, ok, err := out.Faulters.Get(collections.FromInt[testParty](1))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, MissingMessage, fault)
	}
}

func TestMissingP2p(t *testing.T) {
	outputs := drive(t, newToys(t, []int{1, 1, 1, 1}, nil), func(round, from, to int, data []byte) ([]byte, bool) {
		return data, !(round == 2 && from == 3 && to == 0)
	})
	for _, out := range outputs {
		require.True(t, out.Failed())
		fault, ok, err := out.Faulters.Get(collections.FromInt[testParty](3))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, MissingMessage, fault)
		assert.Equal(t, 1, out.Faulters.SomeCount())
	}
}

func TestCorruptedPayload(t *testing.T) {
	var calls atomic.Int32
	outputs := drive(t, newToys(t, []int{1, 1, 2}, &calls), func(round, from, to int, data []byte) ([]byte, bool) {
		if round != 1 || from != 3 {
			return data, true
		}
		w, ok := decodeMessage[testShare](data)
		require.True(t, ok)
		corrupted, err := encodeMessage([]byte("these bytes are corrupted 1234"), w.From, w.MsgType, w.ExpectedMsgTypes)
		require.NoError(t, err)
		return corrupted, true
	})
	assert.Zero(t, calls.Load())
	for _, out := range outputs {
		require.True(t, out.Failed())
		fault, ok, err := out.Faulters.Get(collections.FromInt[testParty](2))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, CorruptedMessage, fault)
	}
}

func TestProtocolFaultFromExecuter(t *testing.T) {
	outputs := drive(t, newToys(t, []int{1, 1, 1}, nil), func(round, from, to int, data []byte) ([]byte, bool) {
		if round != 2 || from != 0 || to != -1 {
			return data, true
		}
		w, ok := decodeMessage[testShare](data)
		require.True(t, ok)
		payload, err := Serialize(uint64(999))
		require.NoError(t, err)
		wrong, err := encodeMessage(payload, w.From, w.MsgType, w.ExpectedMsgTypes)
		require.NoError(t, err)
		return wrong, true
	})
	for i, out := range outputs {
		require.True(t, out.Failed())
		fault, ok, err := out.Faulters.Get(collections.FromInt[testParty](0))
		require.NoError(t, err)
		require.True(t, ok, "share %d", i)
		assert.Equal(t, ProtocolFault, fault)
	}
}

// roundOneMessages returns the round 1 bcast of every share.
func roundOneMessages(t *testing.T, protocols []toyProtocol) [][]byte {
	t.Helper()
	out := make([][]byte, len(protocols))
	for i, p := range protocols {
		out[i] = p.(*NotDone[uint64, testShare, testParty]).Round.BcastOut()
	}
	return out
}

func TestMsgInFaults(t *testing.T) {
	counts := []int{1, 1, 2}
	other := newToys(t, counts, nil)
	bcasts := roundOneMessages(t, other)

	p2pOnlyPayload, err := encodeMessage([]byte{1}, collections.FromInt[testShare](1), MsgType[testShare]{Kind: KindBcast}, P2pOnly)
	require.NoError(t, err)
	p2pToSelf, err := encodeMessage([]byte{1}, collections.FromInt[testShare](1), MsgType[testShare]{Kind: KindP2p, To: collections.FromInt[testShare](1)}, BcastAndP2p)
	require.NoError(t, err)
	single, err := encodeMessage(nil, collections.FromInt[testShare](1), MsgType[testShare]{Kind: KindTotalShareCount1P2pOnly}, P2pOnly)
	require.NoError(t, err)

	tests := []struct {
		name  string
		party int
		extra [][]byte
	}{
		{"oversized", 1, [][]byte{bytes.Repeat([]byte{0}, 10001)}},
		{"undecodable", 1, [][]byte{{0xff, 0x00}}},
		{"share of another party", 2, [][]byte{bcasts[1]}},
		{"duplicate bcast", 1, [][]byte{bcasts[1]}},
		{"conflicting expected types", 1, [][]byte{p2pOnlyPayload}},
		{"p2p to self", 1, [][]byte{p2pToSelf}},
		{"single share placeholder", 1, [][]byte{single}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := newToy(t, counts, 0, nil).(*NotDone[uint64, testShare, testParty]).Round
			for share, b := range bcasts {
				party := []int{0, 1, 2, 2}[share]
				require.NoError(t, me.MsgIn(collections.FromInt[testParty](party), b))
			}
			for _, b := range tt.extra {
				require.NoError(t, me.MsgIn(collections.FromInt[testParty](tt.party), b))
			}
			next, err := me.ExecuteNextRound()
			require.NoError(t, err)
			done, ok := next.(*Done[uint64, testParty])
			require.True(t, ok)
			require.True(t, done.Failed())
			assert.Equal(t, 1, done.Faulters.SomeCount())
			fault, ok, err := done.Faulters.Get(collections.FromInt[testParty](tt.party))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, CorruptedMessage, fault)
		})
	}
}

func TestMsgInFromUnknownParty(t *testing.T) {
	me := newToy(t, []int{1, 1}, 0, nil).(*NotDone[uint64, testShare, testParty]).Round
	assert.ErrorIs(t, me.MsgIn(collections.FromInt[testParty](2), nil), ErrFatal)
}

func TestExpectingMoreMsgs(t *testing.T) {
	protocols := newToys(t, []int{1, 2}, nil)
	bcasts := roundOneMessages(t, protocols)
	me := protocols[0].(*NotDone[uint64, testShare, testParty]).Round
	owners := []int{0, 1, 1}
	for i, b := range bcasts {
		assert.True(t, me.ExpectingMoreMsgsThisRound())
		require.NoError(t, me.MsgIn(collections.FromInt[testParty](owners[i]), b))
	}
	assert.False(t, me.ExpectingMoreMsgsThisRound())
}

func TestExecuteTwice(t *testing.T) {
	me := newToy(t, []int{1}, 0, nil).(*NotDone[uint64, testShare, testParty]).Round
	require.NoError(t, me.MsgIn(collections.FromInt[testParty](0), me.BcastOut()))
	_, err := me.ExecuteNextRound()
	require.NoError(t, err)
	_, err = me.ExecuteNextRound()
	assert.ErrorIs(t, err, ErrFatal)
}

func TestNoMessagesRound(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{1, 1})
	require.NoError(t, err)
	start := func() *Round[uint64, testShare, testParty] {
		p, err := New[uint64, testShare, testParty](psc, collections.FromInt[testShare](0), 100, zerolog.Nop(),
			NewNoMessages[uint64, testShare](&toyR4{total: 7}))
		require.NoError(t, err)
		return p.(*NotDone[uint64, testShare, testParty]).Round
	}

	r := start()
	assert.Nil(t, r.BcastOut())
	assert.Nil(t, r.P2psOut())
	assert.False(t, r.ExpectingMoreMsgsThisRound())
	next, err := r.ExecuteNextRound()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), next.(*Done[uint64, testParty]).Output)

	r = start()
	require.NoError(t, r.MsgIn(collections.FromInt[testParty](1), []byte{1}))
	next, err = r.ExecuteNextRound()
	require.NoError(t, err)
	done := next.(*Done[uint64, testParty])
	require.True(t, done.Failed())
	fault, ok, err := done.Faulters.Get(collections.FromInt[testParty](1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, CorruptedMessage, fault)
}

func TestNewRoundFatal(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{1, 1, 1})
	require.NoError(t, err)
	me := collections.FromInt[testShare](1)

	short, err := collections.NewVecMap[testShare]([][]byte{{1}}).RememberHole(me)
	require.NoError(t, err)
	wrongHole, err := collections.NewVecMap[testShare]([][]byte{{1}, {2}}).RememberHole(collections.FromInt[testShare](0))
	require.NoError(t, err)

	tests := []struct {
		name    string
		builder toyBuilder
	}{
		{"p2ps length", NewP2pOnly[uint64, testShare, uint64](&toyR3{}, short)},
		{"p2ps hole", NewP2pOnly[uint64, testShare, uint64](&toyR3{}, wrongHole)},
		{"no outgoing messages", NewRound[uint64, testShare, uint64, uint64](nil, nil, nil)},
		{"empty faulters", Faulty[uint64](collections.NewFillVecMap[testShare, Fault](3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[uint64, testShare, testParty](psc, me, 100, zerolog.Nop(), tt.builder)
			assert.ErrorIs(t, err, ErrFatal)
		})
	}
}

func TestShareOutsideCounts(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{1, 1})
	require.NoError(t, err)
	_, err = New[uint64, testShare, testParty](psc, collections.FromInt[testShare](2), 100, zerolog.Nop(),
		NewNoMessages[uint64, testShare](&toyR4{}))
	assert.ErrorIs(t, err, ErrFatal)
}

type roundRecorder struct {
	seen []int
	left int
}

func (r *roundRecorder) Execute(info *Info[testShare]) (toyBuilder, error) {
	r.seen = append(r.seen, info.Round())
	if r.left == 0 {
		return Output[uint64, testShare](uint64(len(r.seen))), nil
	}
	r.left--
	return NewNoMessages[uint64, testShare](r), nil
}

func TestExecuterSeesNextRound(t *testing.T) {
	psc, err := NewPartyShareCounts[testParty]([]int{1})
	require.NoError(t, err)
	rec := &roundRecorder{left: 2}
	p, err := New[uint64, testShare, testParty](psc, collections.FromInt[testShare](0), 100, zerolog.Nop(),
		NewNoMessages[uint64, testShare](rec))
	require.NoError(t, err)

	var rounds []int
	for {
		nd, ok := p.(*NotDone[uint64, testShare, testParty])
		if !ok {
			break
		}
		rounds = append(rounds, nd.Round.Info().ShareInfo().Round())
		p, err = nd.Round.ExecuteNextRound()
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, rounds)
	// the executer run at the end of round r already belongs to round r+1
	assert.Equal(t, []int{2, 3, 4}, rec.seen)
	assert.Equal(t, uint64(3), p.(*Done[uint64, testParty]).Output)
}
