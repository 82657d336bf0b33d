package test

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/axelarnetwork/tofn-sub002/pkg/protocol"
)

// HandlerLoop blocks until the handler has finished. The result of the execution is given by Handler.Result().
func HandlerLoop[F, K, P any](ctx context.Context, id int, h *protocol.Handler[F, K, P], network *Network[P]) error {
	out := h.Listen()
	in := network.Next(id)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		// outgoing messages
		case msg, ok := <-out:
			if !ok {
				// the channel was closed, indicating that the protocol is done executing.
				network.Done(id)
				return nil
			}
			if err := network.Send(msg); err != nil {
				return fmt.Errorf("share %d: %w", id, err)
			}

		// incoming messages
		case msg := <-in:
			if err := h.Update(msg); err != nil && !errors.Is(err, protocol.ErrStaleMessage) {
				return fmt.Errorf("share %d: %w", id, err)
			}
		}
	}
}

// ExecuteConcurrent runs every share in its own goroutine, each driven by a protocol.Handler.
func ExecuteConcurrent[F, K, P any](ctx context.Context, protocols []protocol.Protocol[F, K, P]) ([]*protocol.Done[F, P], error) {
	return ExecuteConcurrentLogged(ctx, zerolog.Nop(), protocols)
}

// ExecuteConcurrentLogged is ExecuteConcurrent with handlers logging to logger, tagged with their share.
func ExecuteConcurrentLogged[F, K, P any](ctx context.Context, logger zerolog.Logger, protocols []protocol.Protocol[F, K, P]) ([]*protocol.Done[F, P], error) {
	n := len(protocols)
	network := NewNetwork[P](n, 32*n*(n+1))
	handlers := make([]*protocol.Handler[F, K, P], n)
	for i, p := range protocols {
		h, err := protocol.NewHandler[F, K, P](p, logger.With().Int("share", i).Logger())
		if err != nil {
			return nil, err
		}
		handlers[i] = h
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range handlers {
		id := i
		g.Go(func() error {
			return HandlerLoop(ctx, id, handlers[id], network)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*protocol.Done[F, P], n)
	for i, h := range handlers {
		res, err := h.Result()
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}
