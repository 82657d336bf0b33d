package test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

// ErrBufferFull is returned by Send when a running share has too many undelivered messages.
var ErrBufferFull = errors.New("test: network buffer full")

// Network delivers every message to every share.
type Network[P any] struct {
	listenChannels map[int]chan *protocol.Message[P]
	done           chan struct{}
	mtx            sync.Mutex
}

// NewNetwork returns a Network for shares 0..n-1.
// bufferSize must be large enough to hold every message a share receives during the protocol.
func NewNetwork[P any](n, bufferSize int) *Network[P] {
	c := &Network[P]{
		listenChannels: make(map[int]chan *protocol.Message[P], n),
		done:           make(chan struct{}),
	}
	for id := 0; id < n; id++ {
		c.listenChannels[id] = make(chan *protocol.Message[P], bufferSize)
	}
	return c
}

// Next returns the channel of messages for share id, or nil once that share is done.
func (n *Network[P]) Next(id int) <-chan *protocol.Message[P] {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.listenChannels[id]
}

// Send delivers msg to every share that is still running.
// It fails instead of dropping msg if the buffer of one of them is full.
func (n *Network[P]) Send(msg *protocol.Message[P]) error {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	for id, c := range n.listenChannels {
		select {
		case c <- msg:
		default:
			return fmt.Errorf("%w: share %d", ErrBufferFull, id)
		}
	}
	return nil
}

// Done removes share id from the network. The returned channel is closed once every share is done.
func (n *Network[P]) Done(id int) chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if _, ok := n.listenChannels[id]; ok {
		delete(n.listenChannels, id)
		if len(n.listenChannels) == 0 {
			close(n.done)
		}
	}
	return n.done
}
