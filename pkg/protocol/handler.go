package protocol

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFinished is returned by Handler.Result before the protocol is done.
	ErrNotFinished = errors.New("protocol: not finished")
	// ErrStaleMessage is returned for messages of a round that has already been executed.
	ErrStaleMessage = errors.New("protocol: message for a past round")
)

// Handler drives a Protocol for one share.
// It provides a simple interface for the user to receive/deliver protocol messages,
// buffering messages that arrive before their round.
type Handler[F, K, P any] struct {
	queue *queue[P]
	mtx   sync.Mutex

	Log zerolog.Logger

	done bool

	outChan chan *Message[P]
	round   *Round[F, K, P]
	result  *Done[F, P]
	err     error
}

// NewHandler starts driving p. Outgoing messages of the first round are immediately available on Listen.
// Listen must be drained concurrently with calls to Update.
func NewHandler[F, K, P any](p Protocol[F, K, P], logger zerolog.Logger) (*Handler[F, K, P], error) {
	h := &Handler[F, K, P]{
		Log: logger,
	}
	switch p := p.(type) {
	case *Done[F, P]:
		h.queue = newQueue[P](0)
		h.outChan = make(chan *Message[P])
		h.result = p
		h.stop()
		return h, nil
	case *NotDone[F, K, P]:
		total := p.Round.info.share.TotalShareCount()
		h.queue = newQueue[P](16 * total * (total + 1))
		h.outChan = make(chan *Message[P], 16*(total+1))
		h.round = p.Round
	default:
		return nil, Fatalf(logger, "unknown protocol state %T", p)
	}
	h.Log = h.Log.With().Int("share", h.round.info.share.MyID().Int()).Logger()
	h.Log.Info().Msg("start")

	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.send()
	if !h.round.ExpectingMoreMsgsThisRound() {
		if err := h.finishRound(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Listen returns a channel with outgoing messages that must be delivered to every party.
// The channel is closed when the protocol is done or a fatal error occurs.
func (h *Handler[F, K, P]) Listen() <-chan *Message[P] {
	return h.outChan
}

// Result returns the protocol outcome once it is done.
func (h *Handler[F, K, P]) Result() (*Done[F, P], error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, ErrNotFinished
}

// Update performs the following:
// - If the message is for a later round, store it in a queue for later
// - Deliver the message to the current round
// - If all messages for this round have been received, proceed to the next round
// - Retrieve from the queue any message intended for the new round.
//
// This function may be called concurrently from different threads but may block until all previous calls have finished.
func (h *Handler[F, K, P]) Update(msg *Message[P]) error {
	h.mtx.Lock()
	defer func() {
		if h.err != nil {
			h.stop()
		}
		h.mtx.Unlock()
	}()
	if h.result != nil || h.err != nil {
		return h.err
	}

	current := h.round.info.share.Round()
	switch {
	case msg.RoundNumber < current:
		h.Log.Warn().Stringer("msg", msg).Msg("discarding message for past round")
		return ErrStaleMessage
	case msg.RoundNumber > current:
		h.Log.Debug().Stringer("msg", msg).Msg("storing message")
		return h.queue.Store(msg)
	}
	if err := h.round.MsgIn(msg.From, msg.Data); err != nil {
		return h.abort(err)
	}
	if !h.round.ExpectingMoreMsgsThisRound() {
		return h.finishRound()
	}
	return nil
}

// Timeout executes the current round with the messages received so far.
// Shares that did not send everything are faulted with MissingMessage.
func (h *Handler[F, K, P]) Timeout() error {
	h.mtx.Lock()
	defer func() {
		if h.err != nil {
			h.stop()
		}
		h.mtx.Unlock()
	}()
	if h.result != nil || h.err != nil {
		return h.err
	}
	h.Log.Warn().Int("round", h.round.info.share.Round()).Msg("timeout")
	return h.finishRound()
}

func (h *Handler[F, K, P]) finishRound() error {
	next, err := h.round.ExecuteNextRound()
	if err != nil {
		return h.abort(err)
	}

	switch next := next.(type) {
	case *Done[F, P]:
		h.result = next
		h.round = nil
		if next.Failed() {
			h.Log.Warn().Int("faulters", next.Faulters.SomeCount()).Msg("protocol done with faulters")
		} else {
			h.Log.Info().Msg("protocol done")
		}
		h.stop()
		return nil
	case *NotDone[F, K, P]:
		h.round = next.Round
	default:
		return h.abort(Fatalf(h.Log, "unknown protocol state %T", next))
	}

	h.Log.Info().Int("round", h.round.info.share.Round()).Msg("round advanced")
	h.send()

	for _, msg := range h.queue.Get(h.round.info.share.Round()) {
		if err := h.round.MsgIn(msg.From, msg.Data); err != nil {
			return h.abort(err)
		}
	}

	if !h.round.ExpectingMoreMsgsThisRound() {
		return h.finishRound()
	}
	return nil
}

func (h *Handler[F, K, P]) send() {
	for _, msg := range OutgoingMessages(h.round) {
		h.outChan <- msg
	}
}

// abort wraps a Round error with information about the current round.
func (h *Handler[F, K, P]) abort(err error) error {
	roundErr := Error{Err: err}
	if h.round != nil {
		roundErr.RoundNumber = h.round.info.share.Round()
	}
	if h.err == nil {
		h.err = roundErr
	}
	return roundErr
}

func (h *Handler[F, K, P]) stop() {
	if !h.done {
		h.done = true
		close(h.outChan)
	}
}
