package protocol

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// ProtocolBuilder is returned by executers. It is either a *RoundBuilder describing the next round,
// or a *FinishedBuilder holding the final output or the share faulters.
type ProtocolBuilder[F, K any] interface {
	protocolBuilder()
}

type shape uint8

const (
	shapeBcastAndP2p shape = iota + 1
	shapeBcastOnly
	shapeP2pOnly
	shapeNoMessages
	// shapeAny is used by the general Executer; the announced shape follows from which outgoing messages are set.
	shapeAny
)

// RoundBuilder describes the next round: how to execute it and what it sends.
type RoundBuilder[F, K any] struct {
	executer rawExecuter[F, K]
	shape    shape
	bcastOut []byte
	p2psOut  *collections.HoleVecMap[K, []byte]
}

func (*RoundBuilder[F, K]) protocolBuilder() {}

// FinishedBuilder ends the protocol. Exactly one of Output or Faulters is meaningful:
// Faulters is nil on success.
type FinishedBuilder[F, K any] struct {
	Output   F
	Faulters *collections.FillVecMap[K, Fault]
}

func (*FinishedBuilder[F, K]) protocolBuilder() {}

// NewBcastAndP2p returns the builder for a round in which this share sends bcastOut and p2psOut.
func NewBcastAndP2p[F, K, B, P any](e ExecuterBcastAndP2p[F, K, B, P], bcastOut []byte, p2psOut collections.HoleVecMap[K, []byte]) ProtocolBuilder[F, K] {
	return &RoundBuilder[F, K]{
		executer: bcastAndP2pAdapter[F, K, B, P]{e: e},
		shape:    shapeBcastAndP2p,
		bcastOut: bcastOut,
		p2psOut:  &p2psOut,
	}
}

// NewBcastOnly returns the builder for a round in which this share sends bcastOut.
func NewBcastOnly[F, K, B any](e ExecuterBcastOnly[F, K, B], bcastOut []byte) ProtocolBuilder[F, K] {
	return &RoundBuilder[F, K]{
		executer: bcastOnlyAdapter[F, K, B]{e: e},
		shape:    shapeBcastOnly,
		bcastOut: bcastOut,
	}
}

// NewP2pOnly returns the builder for a round in which this share sends p2psOut.
func NewP2pOnly[F, K, P any](e ExecuterP2pOnly[F, K, P], p2psOut collections.HoleVecMap[K, []byte]) ProtocolBuilder[F, K] {
	return &RoundBuilder[F, K]{
		executer: p2pOnlyAdapter[F, K, P]{e: e},
		shape:    shapeP2pOnly,
		p2psOut:  &p2psOut,
	}
}

// NewNoMessages returns the builder for a round that sends and receives nothing.
func NewNoMessages[F, K any](e ExecuterNoMessages[F, K]) ProtocolBuilder[F, K] {
	return &RoundBuilder[F, K]{
		executer: noMessagesAdapter[F, K]{e: e},
		shape:    shapeNoMessages,
	}
}

// NewRound returns the builder for a round executed by a general Executer.
// At least one of bcastOut and p2psOut must be non-nil.
func NewRound[F, K, B, P any](e Executer[F, K, B, P], bcastOut []byte, p2psOut *collections.HoleVecMap[K, []byte]) ProtocolBuilder[F, K] {
	return &RoundBuilder[F, K]{
		executer: generalAdapter[F, K, B, P]{e: e},
		shape:    shapeAny,
		bcastOut: bcastOut,
		p2psOut:  p2psOut,
	}
}

// Output ends the protocol successfully.
func Output[F, K any](output F) ProtocolBuilder[F, K] {
	return &FinishedBuilder[F, K]{Output: output}
}

// Faulty ends the protocol with the given share faulters.
func Faulty[F, K any](faulters collections.FillVecMap[K, Fault]) ProtocolBuilder[F, K] {
	return &FinishedBuilder[F, K]{Faulters: &faulters}
}

func build[F, K, P any](b ProtocolBuilder[F, K], info PartyInfo[K, P], maxMsgInLen int) (Protocol[F, K, P], error) {
	switch b := b.(type) {
	case *RoundBuilder[F, K]:
		r, err := newRound[F, K, P](b, info, maxMsgInLen)
		if err != nil {
			return nil, err
		}
		return &NotDone[F, K, P]{Round: r}, nil
	case *FinishedBuilder[F, K]:
		if b.Faulters == nil {
			return &Done[F, P]{Output: b.Output}, nil
		}
		if b.Faulters.IsEmpty() {
			return nil, Fatalf(*info.Log(), "protocol finished with an empty faulter list")
		}
		partyFaulters, err := ShareToPartyFaults[K](info.partyShareCounts, *b.Faulters)
		if err != nil {
			return nil, err
		}
		return &Done[F, P]{Faulters: &partyFaulters}, nil
	default:
		return nil, Fatalf(*info.Log(), "unknown protocol builder %T", b)
	}
}
