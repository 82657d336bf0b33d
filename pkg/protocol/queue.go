package protocol

import (
	"errors"
	"sync"
)

// ErrQueueFull is returned when too many early messages are buffered.
var ErrQueueFull = errors.New("protocol: message queue full")

// queue buffers messages that arrive before their round.
type queue[P any] struct {
	messages []*Message[P]
	size     int
	mtx      sync.Mutex
}

func newQueue[P any](size int) *queue[P] {
	return &queue[P]{
		messages: make([]*Message[P], 0, size),
		size:     size,
	}
}

func (q *queue[P]) Store(msg *Message[P]) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if len(q.messages) >= q.size {
		return ErrQueueFull
	}
	q.messages = append(q.messages, msg)
	return nil
}

// Get removes and returns every message for roundNumber, in arrival order.
func (q *queue[P]) Get(roundNumber int) []*Message[P] {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	out := make([]*Message[P], 0, len(q.messages))
	remaining := make([]*Message[P], 0, len(q.messages))
	for _, msg := range q.messages {
		if msg.RoundNumber == roundNumber {
			out = append(out, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}
	q.messages = remaining
	return out
}
