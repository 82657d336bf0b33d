package protocol

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Round accumulates the incoming messages of one round and executes it once they have arrived.
type Round[F, K, P any] struct {
	info             PartyInfo[K, P]
	executer         rawExecuter[F, K]
	shape            shape
	maxMsgInLen      int
	bcastOut         []byte
	p2psOut          *collections.HoleVecMap[K, []byte]
	bcastsIn         collections.FillVecMap[K, []byte]
	p2psIn           collections.FillP2ps[K, []byte]
	expectedMsgTypes collections.FillVecMap[K, ExpectedMsgTypes]
	msgInFaulters    collections.FillVecMap[P, Fault]
	executed         bool
}

func newRound[F, K, P any](b *RoundBuilder[F, K], info PartyInfo[K, P], maxMsgInLen int) (*Round[F, K, P], error) {
	total := info.share.TotalShareCount()
	me := info.share.MyID()
	log := info.Log()

	if b.p2psOut != nil && b.p2psOut.Len() != total {
		return nil, Fatalf(*log, "p2ps_out length %d differs from total share count %d", b.p2psOut.Len(), total)
	}
	if b.p2psOut != nil && b.p2psOut.Hole() != me {
		return nil, Fatalf(*log, "p2ps_out hole %d differs from my share id %d", b.p2psOut.Hole().Int(), me.Int())
	}

	r := &Round[F, K, P]{
		info:             info,
		executer:         b.executer,
		shape:            b.shape,
		maxMsgInLen:      maxMsgInLen,
		bcastsIn:         collections.NewFillVecMap[K, []byte](total),
		p2psIn:           collections.NewFillP2ps[K, []byte](total),
		expectedMsgTypes: collections.NewFillVecMap[K, ExpectedMsgTypes](total),
		msgInFaulters:    collections.NewFillVecMap[P, Fault](info.partyShareCounts.PartyCount()),
	}

	if b.shape == shapeNoMessages {
		if b.bcastOut != nil || b.p2psOut != nil {
			return nil, Fatalf(*log, "round without messages has outgoing messages")
		}
		return r, nil
	}

	var expected ExpectedMsgTypes
	switch {
	case b.bcastOut != nil && b.p2psOut != nil:
		expected = BcastAndP2p
	case b.bcastOut != nil:
		expected = BcastOnly
	case b.p2psOut != nil:
		expected = P2pOnly
	default:
		return nil, Fatalf(*log, "rounds must send at least one outgoing message")
	}
	if want := b.shape.expected(); want != 0 && want != expected {
		return nil, Fatalf(*log, "round of shape %s sends %s", want, expected)
	}

	if b.bcastOut != nil {
		out, err := encodeMessage(b.bcastOut, me, MsgType[K]{Kind: KindBcast}, expected)
		if err != nil {
			return nil, err
		}
		r.bcastOut = out
	}
	if b.p2psOut != nil {
		out, err := collections.MapHoleResult(*b.p2psOut, func(to collections.TypedIndex[K], payload []byte) ([]byte, error) {
			return encodeMessage(payload, me, MsgType[K]{Kind: KindP2p, To: to}, expected)
		})
		if err != nil {
			return nil, err
		}
		r.p2psOut = &out
	}

	if total == 1 && expected == P2pOnly {
		log.Info().Msg("special case: sending dummy bcast_out of type TotalShareCount1P2pOnly")
		out, err := encodeMessage(nil, me, MsgType[K]{Kind: KindTotalShareCount1P2pOnly}, P2pOnly)
		if err != nil {
			return nil, err
		}
		r.bcastOut = out
	}
	return r, nil
}

func (s shape) expected() ExpectedMsgTypes {
	switch s {
	case shapeBcastAndP2p:
		return BcastAndP2p
	case shapeBcastOnly:
		return BcastOnly
	case shapeP2pOnly:
		return P2pOnly
	default:
		return 0
	}
}

// BcastOut returns the wire bytes to broadcast this round, or nil.
func (r *Round[F, K, P]) BcastOut() []byte {
	return r.bcastOut
}

// P2psOut returns the wire bytes to send to each peer this round, or nil.
// Every p2p must be delivered to every party, not only to its recipient.
func (r *Round[F, K, P]) P2psOut() *collections.HoleVecMap[K, []byte] {
	return r.p2psOut
}

// Info returns the party-level information for this round.
func (r *Round[F, K, P]) Info() *PartyInfo[K, P] {
	return &r.info
}

// MsgIn records a message received from party from.
// Malformed messages fault the sending party; only internal errors are returned.
func (r *Round[F, K, P]) MsgIn(from collections.TypedIndex[P], data []byte) error {
	log := r.info.Log()
	if from.Int() < 0 || from.Int() >= r.info.partyShareCounts.PartyCount() {
		return Fatalf(*log, "msg_in from party %d out of bounds %d", from.Int(), r.info.partyShareCounts.PartyCount())
	}
	if r.executed {
		return Fatalf(*log, "msg_in after round was executed")
	}
	fault := func(msg string) error {
		log.Warn().Int("from_party", from.Int()).Msg(msg)
		return r.msgInFaulters.Set(from, CorruptedMessage)
	}

	if r.shape == shapeNoMessages {
		return fault("received message in a round without messages")
	}
	if len(data) > r.maxMsgInLen {
		log.Warn().Int("len", len(data)).Int("max", r.maxMsgInLen).Msg("msg_in exceeds maximum length")
		return r.msgInFaulters.Set(from, CorruptedMessage)
	}

	w, ok := decodeMessage[K](data)
	if !ok {
		return fault("msg_in failed to deserialize metadata")
	}

	if w.From.Int() < 0 || w.From.Int() >= r.info.share.TotalShareCount() {
		return fault("msg_in share id out of bounds")
	}
	owner, err := ShareToPartyID[K](r.info.partyShareCounts, w.From)
	if err != nil || owner != from {
		log.Warn().Int("from_share", w.From.Int()).Int("from_party", from.Int()).Msg("msg_in share id does not belong to party")
		return r.msgInFaulters.Set(from, CorruptedMessage)
	}

	expected, ok, err := r.expectedMsgTypes.Get(w.From)
	if err != nil {
		return err
	}
	if ok {
		if expected != w.ExpectedMsgTypes {
			return fault("msg_in share gave conflicting expected message types")
		}
	} else {
		expected = w.ExpectedMsgTypes
		if err := r.expectedMsgTypes.Set(w.From, expected); err != nil {
			return err
		}
	}

	switch w.MsgType.Kind {
	case KindBcast:
		if !expected.hasBcast() {
			return fault("peer declared " + expected.String() + " but sent Bcast")
		}
		none, err := r.bcastsIn.IsNone(w.From)
		if err != nil {
			return err
		}
		if !none {
			return fault("duplicate bcast message")
		}
		return r.bcastsIn.Set(w.From, w.Payload)
	case KindP2p:
		if !expected.hasP2p() {
			return fault("peer declared " + expected.String() + " but sent P2p")
		}
		to := w.MsgType.To
		if to.Int() < 0 || to.Int() >= r.info.share.TotalShareCount() || to == w.From {
			return fault("p2p recipient out of bounds")
		}
		none, err := r.p2psIn.IsNone(w.From, to)
		if err != nil {
			return err
		}
		if !none {
			return fault("duplicate p2p message")
		}
		return r.p2psIn.Set(w.From, to, w.Payload)
	case KindTotalShareCount1P2pOnly:
		if r.info.share.TotalShareCount() != 1 {
			return fault("received TotalShareCount1P2pOnly message but total share count is not 1")
		}
		if expected != P2pOnly {
			return fault("received TotalShareCount1P2pOnly message but expected message types is not P2pOnly")
		}
		log.Info().Msg("special case: received TotalShareCount1P2pOnly message")
		return nil
	default:
		return fault("unknown message kind")
	}
}

// ExpectingMoreMsgsThisRound reports whether some share has not yet sent everything it announced.
func (r *Round[F, K, P]) ExpectingMoreMsgsThisRound() bool {
	if r.shape == shapeNoMessages {
		return false
	}
	for from, expected := range r.expectedMsgTypes.All() {
		if expected == nil {
			return true
		}
		if expected.hasBcast() {
			if none, _ := r.bcastsIn.IsNone(from); none {
				return true
			}
		}
		if expected.hasP2p() {
			if full, _ := r.p2psIn.IsFullFrom(from); !full {
				return true
			}
		}
	}
	return false
}

// ExecuteNextRound executes this round with whatever messages have arrived.
// Missing messages fault their senders. A round can only be executed once.
func (r *Round[F, K, P]) ExecuteNextRound() (Protocol[F, K, P], error) {
	if r.executed {
		return nil, Fatalf(*r.info.Log(), "round already executed")
	}
	r.executed = true

	total := r.info.share.TotalShareCount()
	shareFaulters := collections.NewFillVecMap[K, Fault](total)
	if !r.msgInFaulters.IsEmpty() {
		faulterParties := r.msgInFaulters.AsSubset()
		r.info.Log().Debug().Stringer("parties", faulterParties).Msg("deleting all messages from msg_in faulter parties")
		shares, err := ShareIDSubset[K](r.info.partyShareCounts, faulterParties)
		if err != nil {
			return nil, err
		}
		for _, share := range shares {
			if err := r.expectedMsgTypes.Unset(share); err != nil {
				return nil, err
			}
			if err := r.bcastsIn.Unset(share); err != nil {
				return nil, err
			}
			if err := r.p2psIn.UnsetAll(share); err != nil {
				return nil, err
			}
			if err := shareFaulters.Set(share, CorruptedMessage); err != nil {
				return nil, err
			}
		}
	}

	info := r.info
	info.advanceRound()
	builder, err := r.executer.executeRaw(info.ShareInfo(), rawInputs[K]{
		bcasts:   r.bcastsIn,
		p2ps:     r.p2psIn,
		expected: r.expectedMsgTypes,
		faulters: shareFaulters,
	})
	if err != nil {
		return nil, err
	}
	return build[F, K, P](builder, info, r.maxMsgInLen)
}
