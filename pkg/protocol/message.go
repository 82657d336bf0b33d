package protocol

import (
	"fmt"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Message is a wire message together with the transport metadata a Handler needs.
// Every message, bcast or p2p, must be delivered to every party.
type Message[P any] struct {
	// From is the party that sent the message, as authenticated by the transport.
	From collections.TypedIndex[P]
	// RoundNumber is the round the message belongs to.
	RoundNumber int
	// Data is the wire encoding produced by Round.BcastOut or Round.P2psOut.
	Data []byte
}

// String implements fmt.Stringer.
func (m Message[P]) String() string {
	return fmt.Sprintf("message: round %d, from: %s, %d bytes", m.RoundNumber, m.From, len(m.Data))
}

// OutgoingMessages returns the messages round r sends, tagged with the sending party.
func OutgoingMessages[F, K, P any](r *Round[F, K, P]) []*Message[P] {
	var out []*Message[P]
	round := r.info.share.Round()
	from := r.info.PartyID()
	if b := r.BcastOut(); b != nil {
		out = append(out, &Message[P]{From: from, RoundNumber: round, Data: b})
	}
	if p2ps := r.P2psOut(); p2ps != nil {
		for _, data := range p2ps.All() {
			out = append(out, &Message[P]{From: from, RoundNumber: round, Data: data})
		}
	}
	return out
}
