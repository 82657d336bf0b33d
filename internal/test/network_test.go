package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

type testParty struct{}

func TestNetworkSend(t *testing.T) {
	n := NewNetwork[testParty](2, 1)
	first := &protocol.Message[testParty]{RoundNumber: 1}
	require.NoError(t, n.Send(first))
	assert.Same(t, first, <-n.Next(0))

	// share 1 has not read the first message
	err := n.Send(&protocol.Message[testParty]{RoundNumber: 2})
	assert.ErrorIs(t, err, ErrBufferFull)

	// finished shares no longer receive anything
	n.Done(1)
	require.NoError(t, n.Send(&protocol.Message[testParty]{RoundNumber: 3}))
	done := n.Done(0)
	select {
	case <-done:
	default:
		t.Fatal("network not done after every share finished")
	}
}
