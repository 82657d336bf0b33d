package test

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

// Rule describes hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyMessage is called for every outgoing message before it is delivered.
	// to is -1 for bcasts. Returning false drops the message for every recipient.
	ModifyMessage(round, fromShare, toShare int, data []byte) ([]byte, bool)
}

// DropP2p is a Rule that drops a single p2p message.
type DropP2p struct {
	Round, From, To int
}

// ModifyMessage implements Rule.
func (d DropP2p) ModifyMessage(round, from, to int, data []byte) ([]byte, bool) {
	if round == d.Round && from == d.From && to == d.To {
		return nil, false
	}
	return data, true
}

type outgoing[P any] struct {
	from collections.TypedIndex[P]
	data []byte
}

// Rounds executes one round for every share that is not yet done.
// Every outgoing message is delivered to every unfinished share, then every round is executed,
// regardless of whether it is still expecting messages. It returns true once every share is done.
func Rounds[F, K, P any](protocols []protocol.Protocol[F, K, P], rule Rule) (bool, error) {
	var msgs []outgoing[P]
	for _, p := range protocols {
		nd, ok := p.(*protocol.NotDone[F, K, P])
		if !ok {
			continue
		}
		r := nd.Round
		round := r.Info().ShareInfo().Round()
		from := r.Info().ShareInfo().MyID().Int()
		party := r.Info().PartyID()
		if b := r.BcastOut(); b != nil {
			data, keep := b, true
			if rule != nil {
				data, keep = rule.ModifyMessage(round, from, -1, b)
			}
			if keep {
				msgs = append(msgs, outgoing[P]{from: party, data: data})
			}
		}
		if p2ps := r.P2psOut(); p2ps != nil {
			for to, b := range p2ps.All() {
				data, keep := b, true
				if rule != nil {
					data, keep = rule.ModifyMessage(round, from, to.Int(), b)
				}
				if keep {
					msgs = append(msgs, outgoing[P]{from: party, data: data})
				}
			}
		}
	}

	var errGroup errgroup.Group
	for i := range protocols {
		idx := i
		nd, ok := protocols[idx].(*protocol.NotDone[F, K, P])
		if !ok {
			continue
		}
		errGroup.Go(func() error {
			for _, msg := range msgs {
				if err := nd.Round.MsgIn(msg.from, msg.data); err != nil {
					return fmt.Errorf("share %d: msg_in: %w", idx, err)
				}
			}
			next, err := nd.Round.ExecuteNextRound()
			if err != nil {
				return fmt.Errorf("share %d: execute: %w", idx, err)
			}
			protocols[idx] = next
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return false, err
	}

	for _, p := range protocols {
		if _, ok := p.(*protocol.NotDone[F, K, P]); ok {
			return false, nil
		}
	}
	return true, nil
}

// Execute runs Rounds until every share is done and returns the outcome of each share.
func Execute[F, K, P any](protocols []protocol.Protocol[F, K, P], rule Rule) ([]*protocol.Done[F, P], error) {
	const maxRounds = 64
	for i := 0; i < maxRounds; i++ {
		done, err := Rounds(protocols, rule)
		if err != nil {
			return nil, err
		}
		if done {
			out := make([]*protocol.Done[F, P], len(protocols))
			for j, p := range protocols {
				out[j] = p.(*protocol.Done[F, P])
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("protocol did not finish after %d rounds", maxRounds)
}

// ModifyPayload is a Rule that rewrites the round payload of a single message, see protocol.MapPayload.
// To is -1 for a bcast. The message is dropped if Modify fails.
type ModifyPayload struct {
	Round, From, To int
	Modify          func(payload []byte) ([]byte, error)
}

// ModifyMessage implements Rule.
func (m ModifyPayload) ModifyMessage(round, from, to int, data []byte) ([]byte, bool) {
	if round != m.Round || from != m.From || to != m.To {
		return data, true
	}
	out, err := protocol.MapPayload(data, m.Modify)
	if err != nil {
		return nil, false
	}
	return out, true
}
