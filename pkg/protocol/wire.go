package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

const serializationVersion uint16 = 0

// MsgKind is the kind of an outgoing message.
type MsgKind uint8

const (
	// KindBcast is a broadcast message.
	KindBcast MsgKind = iota + 1
	// KindP2p is a point-to-point message.
	KindP2p
	// KindTotalShareCount1P2pOnly is an empty placeholder sent in P2pOnly rounds when there is a single share.
	KindTotalShareCount1P2pOnly
)

// ExpectedMsgTypes is the shape of a round as announced by the sender on every message.
type ExpectedMsgTypes uint8

const (
	BcastAndP2p ExpectedMsgTypes = iota + 1
	BcastOnly
	P2pOnly
)

func (e ExpectedMsgTypes) String() string {
	switch e {
	case BcastAndP2p:
		return "BcastAndP2p"
	case BcastOnly:
		return "BcastOnly"
	case P2pOnly:
		return "P2pOnly"
	default:
		return fmt.Sprintf("ExpectedMsgTypes(%d)", uint8(e))
	}
}

func (e ExpectedMsgTypes) hasBcast() bool {
	return e == BcastAndP2p || e == BcastOnly
}

func (e ExpectedMsgTypes) hasP2p() bool {
	return e == BcastAndP2p || e == P2pOnly
}

// MsgType identifies the kind of a wire message and, for p2p messages, its recipient.
type MsgType[K any] struct {
	_    struct{} `cbor:",toarray"`
	Kind MsgKind
	To   collections.TypedIndex[K]
}

type wireBytes[K any] struct {
	_                struct{} `cbor:",toarray"`
	MsgType          MsgType[K]
	From             collections.TypedIndex[K]
	Payload          []byte
	ExpectedMsgTypes ExpectedMsgTypes
}

type bytesVersioned struct {
	_       struct{} `cbor:",toarray"`
	Version uint16
	Payload []byte
}

// Serialize encodes v as a versioned cbor payload.
// A failure to serialize is fatal.
func Serialize(v interface{}) ([]byte, error) {
	inner, err := cbor.Marshal(v)
	if err != nil {
		return nil, Fatalf(log.Logger, "serialization failure: %v", err)
	}
	out, err := cbor.Marshal(bytesVersioned{Version: serializationVersion, Payload: inner})
	if err != nil {
		return nil, Fatalf(log.Logger, "serialization failure: %v", err)
	}
	return out, nil
}

// Deserialize decodes a payload produced by Serialize.
// It returns false if the data is malformed or has the wrong version.
func Deserialize[T any](data []byte) (T, bool) {
	var zero T
	var versioned bytesVersioned
	if err := cbor.Unmarshal(data, &versioned); err != nil {
		log.Warn().Err(err).Msg("outer deserialization failure")
		return zero, false
	}
	if versioned.Version != serializationVersion {
		log.Warn().Uint16("version", versioned.Version).Uint16("expected", serializationVersion).Msg("unexpected encoding version")
		return zero, false
	}
	var out T
	if err := cbor.Unmarshal(versioned.Payload, &out); err != nil {
		log.Warn().Err(err).Msg("inner deserialization failure")
		return zero, false
	}
	return out, true
}

func encodeMessage[K any](payload []byte, from collections.TypedIndex[K], msgType MsgType[K], expected ExpectedMsgTypes) ([]byte, error) {
	return Serialize(wireBytes[K]{
		MsgType:          msgType,
		From:             from,
		Payload:          payload,
		ExpectedMsgTypes: expected,
	})
}

func decodeMessage[K any](data []byte) (wireBytes[K], bool) {
	w, ok := Deserialize[wireBytes[K]](data)
	if !ok {
		return w, false
	}
	if w.ExpectedMsgTypes < BcastAndP2p || w.ExpectedMsgTypes > P2pOnly {
		log.Warn().Uint8("expected_msg_types", uint8(w.ExpectedMsgTypes)).Msg("invalid expected message types")
		return w, false
	}
	if w.MsgType.Kind < KindBcast || w.MsgType.Kind > KindTotalShareCount1P2pOnly {
		log.Warn().Uint8("kind", uint8(w.MsgType.Kind)).Msg("invalid message kind")
		return w, false
	}
	return w, true
}

// MapPayload replaces the round payload carried by the wire message data with f(payload), where
// payload is the cbor encoding of the round's bcast or p2p struct. It builds misbehaving shares in tests.
func MapPayload(data []byte, f func(payload []byte) ([]byte, error)) ([]byte, error) {
	w, ok := decodeMessage[struct{}](data)
	if !ok {
		return nil, fmt.Errorf("malformed wire message")
	}
	var versioned bytesVersioned
	if err := cbor.Unmarshal(w.Payload, &versioned); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	inner, err := f(versioned.Payload)
	if err != nil {
		return nil, err
	}
	if w.Payload, err = cbor.Marshal(bytesVersioned{Version: versioned.Version, Payload: inner}); err != nil {
		return nil, err
	}
	return Serialize(w)
}
