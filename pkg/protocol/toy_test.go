package protocol

import (
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// A toy four-round protocol exercising every round shape:
// r1 bcasts the share id, r2 bcasts the sum of ids and p2ps from*100+to,
// r3 p2ps the accumulated total and r4 consumes nothing and outputs it.

type testShare struct{}
type testParty struct{}

type (
	toyProtocol = Protocol[uint64, testShare, testParty]
	toyBuilder  = ProtocolBuilder[uint64, testShare]
)

type toyR1 struct {
	calls *atomic.Int32
}

type toyR2 struct {
	sum uint64
}

type toyR3 struct {
	total uint64
}

type toyR4 struct {
	total uint64
}

func (r *toyR1) Execute(info *Info[testShare], bcastsIn collections.VecMap[testShare, uint64]) (toyBuilder, error) {
	if r.calls != nil {
		r.calls.Add(1)
	}
	var sum uint64
	for _, id := range bcastsIn.All() {
		sum += id
	}
	bcast, err := Serialize(sum)
	if err != nil {
		return nil, err
	}
	p2ps, err := toyP2ps(info, func(to int) uint64 { return uint64(info.MyID().Int()*100 + to) })
	if err != nil {
		return nil, err
	}
	return NewBcastAndP2p[uint64, testShare, uint64, uint64](&toyR2{sum: sum}, bcast, p2ps), nil
}

func (r *toyR2) Execute(info *Info[testShare], bcastsIn collections.VecMap[testShare, uint64], p2psIn collections.FullP2ps[testShare, uint64]) (toyBuilder, error) {
	faulters := collections.NewFillVecMap[testShare, Fault](info.TotalShareCount())
	for from, sum := range bcastsIn.All() {
		if sum != r.sum {
			info.LogFault(from, "wrong sum")
			if err := faulters.Set(from, ProtocolFault); err != nil {
				return nil, err
			}
		}
	}
	if !faulters.IsEmpty() {
		return Faulty[uint64](faulters), nil
	}
	total := r.sum
	toMe, err := p2psIn.ToMe(info.MyID())
	if err != nil {
		return nil, err
	}
	for _, v := range toMe {
		total += v
	}
	p2ps, err := toyP2ps(info, func(int) uint64 { return total })
	if err != nil {
		return nil, err
	}
	return NewP2pOnly[uint64, testShare, uint64](&toyR3{total: total}, p2ps), nil
}

func (r *toyR3) Execute(info *Info[testShare], p2psIn collections.FullP2ps[testShare, uint64]) (toyBuilder, error) {
	toMe, err := p2psIn.ToMe(info.MyID())
	if err != nil {
		return nil, err
	}
	for _, v := range toMe {
		if v == 0 {
			return nil, Fatalf(*info.Log(), "unexpected zero total")
		}
	}
	return NewNoMessages[uint64, testShare](&toyR4{total: r.total}), nil
}

func (r *toyR4) Execute(*Info[testShare]) (toyBuilder, error) {
	return Output[uint64, testShare](r.total), nil
}

func toyP2ps(info *Info[testShare], f func(to int) uint64) (collections.HoleVecMap[testShare, []byte], error) {
	vec := make([]uint64, info.TotalShareCount())
	for to := range vec {
		vec[to] = f(to)
	}
	full := collections.NewVecMap[testShare](vec)
	hole, _, err := full.PunctureHole(info.MyID())
	if err != nil {
		return collections.HoleVecMap[testShare, []byte]{}, err
	}
	return collections.MapHoleResult(hole, func(_ collections.TypedIndex[testShare], v uint64) ([]byte, error) {
		return Serialize(v)
	})
}

func newToy(t *testing.T, counts []int, share int, calls *atomic.Int32) toyProtocol {
	t.Helper()
	psc, err := NewPartyShareCounts[testParty](counts)
	require.NoError(t, err)
	bcast, err := Serialize(uint64(share))
	require.NoError(t, err)
	p, err := New[uint64, testShare, testParty](psc, collections.FromInt[testShare](share), 10000, zerolog.Nop(),
		NewBcastOnly[uint64, testShare, uint64](&toyR1{calls: calls}, bcast))
	require.NoError(t, err)
	return p
}

func newToys(t *testing.T, counts []int, calls *atomic.Int32) []toyProtocol {
	t.Helper()
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]toyProtocol, total)
	for i := range out {
		out[i] = newToy(t, counts, i, calls)
	}
	return out
}

// toyExpected is the output of share i of n shares.
func toyExpected(n, i int) uint64 {
	total := uint64(n * (n - 1) / 2)
	for j := 0; j < n; j++ {
		if j != i {
			total += uint64(j*100 + i)
		}
	}
	return total
}

type modifier func(round, from, to int, data []byte) ([]byte, bool)

// drive delivers every outgoing message to every share and executes every round until all are done.
func drive(t *testing.T, protocols []toyProtocol, modify modifier) []*Done[uint64, testParty] {
	t.Helper()
	for step := 0; step < 10; step++ {
		type msg struct {
			from collections.TypedIndex[testParty]
			data []byte
		}
		var msgs []msg
		for _, p := range protocols {
			nd, ok := p.(*NotDone[uint64, testShare, testParty])
			if !ok {
				continue
			}
			r := nd.Round
			push := func(to int, data []byte) {
				keep := true
				if modify != nil {
					data, keep = modify(r.Info().ShareInfo().Round(), r.Info().ShareInfo().MyID().Int(), to, data)
				}
				if keep {
					msgs = append(msgs, msg{from: r.Info().PartyID(), data: data})
				}
			}
			if b := r.BcastOut(); b != nil {
				push(-1, b)
			}
			if p2ps := r.P2psOut(); p2ps != nil {
				for to, data := range p2ps.All() {
					push(to.Int(), data)
				}
			}
		}
		allDone := true
		for i, p := range protocols {
			nd, ok := p.(*NotDone[uint64, testShare, testParty])
			if !ok {
				continue
			}
			allDone = false
			for _, m := range msgs {
				require.NoError(t, nd.Round.MsgIn(m.from, m.data))
			}
			next, err := nd.Round.ExecuteNextRound()
			require.NoError(t, err)
			protocols[i] = next
		}
		if allDone {
			out := make([]*Done[uint64, testParty], len(protocols))
			for i, p := range protocols {
				out[i] = p.(*Done[uint64, testParty])
			}
			return out
		}
	}
	t.Fatal("protocol did not finish")
	return nil
}
