package protocol

import (
	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Protocol is the state of a protocol execution: either *NotDone or *Done.
type Protocol[F, K, P any] interface {
	protocol()
}

// NotDone holds the current round.
type NotDone[F, K, P any] struct {
	Round *Round[F, K, P]
}

func (*NotDone[F, K, P]) protocol() {}

// Done holds the outcome of a finished protocol.
// Faulters is nil on success and lists every faulty party otherwise.
type Done[F, P any] struct {
	Output   F
	Faulters *collections.FillVecMap[P, Fault]
}

func (*Done[F, P]) protocol() {}

// Failed reports whether the protocol ended with faulters.
func (d *Done[F, P]) Failed() bool {
	return d.Faulters != nil
}

// New starts a protocol for the share shareID, whose first round is described by firstRound.
// Incoming messages longer than maxMsgInLen are treated as corrupted.
func New[F, K, P any](psc PartyShareCounts[P], shareID collections.TypedIndex[K], maxMsgInLen int, logger zerolog.Logger, firstRound ProtocolBuilder[F, K]) (Protocol[F, K, P], error) {
	info, err := newPartyInfo[K, P](psc, shareID, logger)
	if err != nil {
		return nil, err
	}
	return build[F, K, P](firstRound, info, maxMsgInLen)
}
