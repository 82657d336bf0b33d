package protocol

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

type path uint8

const (
	happy path = iota + 1
	sad
)

func TestClassify(t *testing.T) {
	const n = 3
	info := NewInfoForTest[testShare](n, collections.FromInt[testShare](0), 5)

	bcasts := collections.NewFillVecMap[testShare, uint64](n)
	require.NoError(t, bcasts.Set(collections.FromInt[testShare](0), 1))
	require.NoError(t, bcasts.Set(collections.FromInt[testShare](1), 2))

	// share 0 sends only a bcast, share 1 sends both and share 2 sends only p2ps
	row := func(from int) *collections.HoleVecMap[testShare, uint64] {
		vec := collections.NewVecMap[testShare](make([]uint64, n))
		h, _, err := vec.PunctureHole(collections.FromInt[testShare](from))
		require.NoError(t, err)
		return &h
	}
	p2ps, err := collections.NewP2ps[testShare, uint64]([]*collections.HoleVecMap[testShare, uint64]{nil, row(1), row(2)})
	require.NoError(t, err)

	tags, faulters, err := Classify(info, bcasts, p2ps, func(_ collections.TypedIndex[testShare], bcast *uint64, p2ps *collections.HoleVecMap[testShare, uint64]) (path, bool) {
		switch {
		case bcast != nil && p2ps == nil:
			return happy, true
		case bcast == nil && p2ps != nil:
			return sad, true
		default:
			return 0, false
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, faulters.SomeCount())
	fault, ok, err := faulters.Get(collections.FromInt[testShare](1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ProtocolFault, fault)

	tag, err := tags.Get(collections.FromInt[testShare](0))
	require.NoError(t, err)
	assert.Equal(t, happy, tag)
	tag, err = tags.Get(collections.FromInt[testShare](2))
	require.NoError(t, err)
	assert.Equal(t, sad, tag)
}

func TestClassifyLengthMismatch(t *testing.T) {
	info := NewInfoForTest[testShare](2, collections.FromInt[testShare](0), 1)
	p2ps, err := collections.NewP2ps[testShare, uint64](make([]*collections.HoleVecMap[testShare, uint64], 2))
	require.NoError(t, err)
	_, _, err = Classify(info, collections.NewFillVecMap[testShare, uint64](3), p2ps,
		func(collections.TypedIndex[testShare], *uint64, *collections.HoleVecMap[testShare, uint64]) (path, bool) {
			return happy, true
		})
	assert.ErrorIs(t, err, ErrFatal)
}

func TestDeserialize(t *testing.T) {
	data, err := Serialize([]uint64{1, 2, 3})
	require.NoError(t, err)
	got, ok := Deserialize[[]uint64](data)
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 3}, got)

	_, ok = Deserialize[string](data)
	assert.False(t, ok, "wrong inner type")

	inner, err := cbor.Marshal(uint64(4))
	require.NoError(t, err)
	future, err := cbor.Marshal(bytesVersioned{Version: serializationVersion + 1, Payload: inner})
	require.NoError(t, err)
	_, ok = Deserialize[uint64](future)
	assert.False(t, ok, "unknown version")

	_, ok = Deserialize[uint64](nil)
	assert.False(t, ok)
}

func TestDecodeMessageRejectsUnknownEnums(t *testing.T) {
	from := collections.FromInt[testShare](0)
	tests := []struct {
		name     string
		kind     MsgKind
		expected ExpectedMsgTypes
		ok       bool
	}{
		{"valid", KindBcast, BcastOnly, true},
		{"zero kind", 0, BcastOnly, false},
		{"unknown kind", KindTotalShareCount1P2pOnly + 1, BcastOnly, false},
		{"zero expected", KindP2p, 0, false},
		{"unknown expected", KindP2p, P2pOnly + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeMessage([]byte{1}, from, MsgType[testShare]{Kind: tt.kind}, tt.expected)
			require.NoError(t, err)
			_, ok := decodeMessage[testShare](data)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMapPayload(t *testing.T) {
	payload, err := Serialize(uint64(7))
	require.NoError(t, err)
	to := collections.FromInt[testShare](2)
	data, err := encodeMessage(payload, collections.FromInt[testShare](1), MsgType[testShare]{Kind: KindP2p, To: to}, BcastAndP2p)
	require.NoError(t, err)

	out, err := MapPayload(data, func(inner []byte) ([]byte, error) {
		var v uint64
		if err := cbor.Unmarshal(inner, &v); err != nil {
			return nil, err
		}
		return cbor.Marshal(v + 1)
	})
	require.NoError(t, err)

	w, ok := decodeMessage[testShare](out)
	require.True(t, ok)
	assert.Equal(t, 1, w.From.Int())
	assert.Equal(t, to, w.MsgType.To)
	assert.Equal(t, BcastAndP2p, w.ExpectedMsgTypes)
	got, ok := Deserialize[uint64](w.Payload)
	require.True(t, ok)
	assert.Equal(t, uint64(8), got)

	_, err = MapPayload([]byte{1, 2, 3}, func(inner []byte) ([]byte, error) { return inner, nil })
	assert.Error(t, err)
}

func TestFaultCBOR(t *testing.T) {
	data, err := cbor.Marshal(ProtocolFault)
	require.NoError(t, err)
	var f Fault
	require.NoError(t, cbor.Unmarshal(data, &f))
	assert.Equal(t, ProtocolFault, f)

	bad, err := cbor.Marshal(uint8(ProtocolFault + 1))
	require.NoError(t, err)
	assert.Error(t, cbor.Unmarshal(bad, &f))
	assert.Equal(t, "MissingMessage", MissingMessage.String())
}
