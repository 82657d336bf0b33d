package protocol

import (
	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Executer is implemented by rounds whose incoming message shape varies by sender,
// for example rounds where a peer may take either a happy or a sad path.
// Bcasts from peers that sent none are empty slots; p2p rows from peers that sent none are nil.
type Executer[F, K, B, P any] interface {
	Execute(info *Info[K], bcastsIn collections.FillVecMap[K, B], p2psIn collections.P2ps[K, P]) (ProtocolBuilder[F, K], error)
}

// ExecuterBcastOnly is implemented by rounds in which every peer sends exactly one bcast.
type ExecuterBcastOnly[F, K, B any] interface {
	Execute(info *Info[K], bcastsIn collections.VecMap[K, B]) (ProtocolBuilder[F, K], error)
}

// ExecuterP2pOnly is implemented by rounds in which every peer sends a p2p to every other peer.
type ExecuterP2pOnly[F, K, P any] interface {
	Execute(info *Info[K], p2psIn collections.FullP2ps[K, P]) (ProtocolBuilder[F, K], error)
}

// ExecuterBcastAndP2p is implemented by rounds in which every peer sends a bcast and a p2p to every other peer.
type ExecuterBcastAndP2p[F, K, B, P any] interface {
	Execute(info *Info[K], bcastsIn collections.VecMap[K, B], p2psIn collections.FullP2ps[K, P]) (ProtocolBuilder[F, K], error)
}

// ExecuterNoMessages is implemented by rounds that consume no messages.
type ExecuterNoMessages[F, K any] interface {
	Execute(info *Info[K]) (ProtocolBuilder[F, K], error)
}

// rawInputs is everything a round has accumulated when it is asked to advance.
type rawInputs[K any] struct {
	bcasts   collections.FillVecMap[K, []byte]
	p2ps     collections.FillP2ps[K, []byte]
	expected collections.FillVecMap[K, ExpectedMsgTypes]
	faulters collections.FillVecMap[K, Fault]
}

type rawExecuter[F, K any] interface {
	executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error)
}

// decoded is the output of the generic checks.
type decoded[K, B, P any] struct {
	bcasts collections.FillVecMap[K, B]
	p2ps   collections.P2ps[K, P]
}

// checkInputs runs the checks common to every round: first timeouts, then decoding.
// If any check faults a sender the returned faulters are non-empty and the decoded values must not be used.
// If shape is non-zero every sender must have announced that shape.
func checkInputs[K, B, P any](info *Info[K], in rawInputs[K], shape ExpectedMsgTypes) (decoded[K, B, P], collections.FillVecMap[K, Fault], error) {
	faulters := in.faulters
	if !faulters.IsEmpty() {
		return decoded[K, B, P]{}, faulters, nil
	}
	if err := timeoutFaulters(info, in, &faulters); err != nil {
		return decoded[K, B, P]{}, faulters, err
	}
	if !faulters.IsEmpty() {
		return decoded[K, B, P]{}, faulters, nil
	}

	if shape != 0 {
		for from, expected := range in.expected.Some() {
			if expected != shape {
				info.Log().Warn().Int("from", from.Int()).Stringer("announced", expected).Stringer("round", shape).Msg("peer announced unexpected round shape")
				if err := faulters.Set(from, CorruptedMessage); err != nil {
					return decoded[K, B, P]{}, faulters, err
				}
			}
		}
		if !faulters.IsEmpty() {
			return decoded[K, B, P]{}, faulters, nil
		}
	}

	bcasts := collections.NewFillVecMap[K, B](in.bcasts.Len())
	for from, data := range in.bcasts.Some() {
		val, ok := Deserialize[B](data)
		if !ok {
			info.Log().Warn().Int("from", from.Int()).Msg("detected corrupted bcast")
			if err := faulters.Set(from, CorruptedMessage); err != nil {
				return decoded[K, B, P]{}, faulters, err
			}
			continue
		}
		if err := bcasts.Set(from, val); err != nil {
			return decoded[K, B, P]{}, faulters, err
		}
	}

	p2psDecoded := collections.NewFillP2ps[K, P](in.p2ps.Len())
	for from := range in.expected.All() {
		row, err := in.p2ps.AllFrom(from)
		if err != nil {
			return decoded[K, B, P]{}, faulters, err
		}
		for to, data := range row {
			if data == nil {
				continue
			}
			val, ok := Deserialize[P](*data)
			if !ok {
				info.Log().Warn().Int("from", from.Int()).Int("to", to.Int()).Msg("detected corrupted p2p")
				if err := faulters.Set(from, CorruptedMessage); err != nil {
					return decoded[K, B, P]{}, faulters, err
				}
				continue
			}
			if err := p2psDecoded.Set(from, to, val); err != nil {
				return decoded[K, B, P]{}, faulters, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return decoded[K, B, P]{}, faulters, nil
	}

	p2ps, err := p2psDecoded.ToP2ps()
	if err != nil {
		return decoded[K, B, P]{}, faulters, err
	}
	if info.TotalShareCount() == 1 {
		expected, ok, err := in.expected.Get(collections.FromInt[K](0))
		if err != nil {
			return decoded[K, B, P]{}, faulters, err
		}
		if !ok {
			return decoded[K, B, P]{}, faulters, Fatalf(*info.Log(), "missing expected message types for the only share")
		}
		if expected.hasP2p() {
			p2ps = collections.NewP2psSize1Some[K, P]()
		}
	}
	return decoded[K, B, P]{bcasts: bcasts, p2ps: p2ps}, faulters, nil
}

func timeoutFaulters[K any](info *Info[K], in rawInputs[K], faulters *collections.FillVecMap[K, Fault]) error {
	for from, expected := range in.expected.All() {
		if expected == nil {
			info.Log().Warn().Int("from", from.Int()).Msg("peer did not send any messages")
			if err := faulters.Set(from, MissingMessage); err != nil {
				return err
			}
			continue
		}
		if expected.hasBcast() {
			none, err := in.bcasts.IsNone(from)
			if err != nil {
				return err
			}
			if none {
				info.Log().Warn().Int("from", from.Int()).Msg("detected missing bcast")
				if err := faulters.Set(from, MissingMessage); err != nil {
					return err
				}
			}
		}
		if expected.hasP2p() {
			full, err := in.p2ps.IsFullFrom(from)
			if err != nil {
				return err
			}
			if !full {
				row, err := in.p2ps.AllFrom(from)
				if err != nil {
					return err
				}
				var missing []int
				for to, v := range row {
					if v == nil {
						missing = append(missing, to.Int())
					}
				}
				info.Log().Warn().Int("from", from.Int()).Ints("to", missing).Msg("detected missing p2p")
				if err := faulters.Set(from, MissingMessage); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type generalAdapter[F, K, B, P any] struct {
	e Executer[F, K, B, P]
}

func (a generalAdapter[F, K, B, P]) executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error) {
	d, faulters, err := checkInputs[K, B, P](info, in, 0)
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return Faulty[F](faulters), nil
	}
	return a.e.Execute(info, d.bcasts, d.p2ps)
}

type bcastOnlyAdapter[F, K, B any] struct {
	e ExecuterBcastOnly[F, K, B]
}

func (a bcastOnlyAdapter[F, K, B]) executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error) {
	d, faulters, err := checkInputs[K, B, struct{}](info, in, BcastOnly)
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return Faulty[F](faulters), nil
	}
	bcasts, err := d.bcasts.UnwrapAll()
	if err != nil {
		return nil, err
	}
	return a.e.Execute(info, bcasts)
}

type p2pOnlyAdapter[F, K, P any] struct {
	e ExecuterP2pOnly[F, K, P]
}

func (a p2pOnlyAdapter[F, K, P]) executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error) {
	d, faulters, err := checkInputs[K, struct{}, P](info, in, P2pOnly)
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return Faulty[F](faulters), nil
	}
	p2ps, err := d.p2ps.ToFullP2ps()
	if err != nil {
		return nil, err
	}
	return a.e.Execute(info, p2ps)
}

type bcastAndP2pAdapter[F, K, B, P any] struct {
	e ExecuterBcastAndP2p[F, K, B, P]
}

func (a bcastAndP2pAdapter[F, K, B, P]) executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error) {
	d, faulters, err := checkInputs[K, B, P](info, in, BcastAndP2p)
	if err != nil {
		return nil, err
	}
	if !faulters.IsEmpty() {
		return Faulty[F](faulters), nil
	}
	bcasts, err := d.bcasts.UnwrapAll()
	if err != nil {
		return nil, err
	}
	p2ps, err := d.p2ps.ToFullP2ps()
	if err != nil {
		return nil, err
	}
	return a.e.Execute(info, bcasts, p2ps)
}

type noMessagesAdapter[F, K any] struct {
	e ExecuterNoMessages[F, K]
}

func (a noMessagesAdapter[F, K]) executeRaw(info *Info[K], in rawInputs[K]) (ProtocolBuilder[F, K], error) {
	if !in.faulters.IsEmpty() {
		return Faulty[F](in.faulters), nil
	}
	return a.e.Execute(info)
}
