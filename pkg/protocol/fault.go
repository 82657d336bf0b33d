package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Fault is a protocol-level misbehaviour attributed to a remote participant.
type Fault uint8

const (
	// MissingMessage means no message was received before the round was advanced.
	MissingMessage Fault = iota + 1
	// CorruptedMessage means a message was received but could not be decoded or was malformed.
	CorruptedMessage
	// ProtocolFault means a message decoded correctly but violated the protocol.
	ProtocolFault
)

func (f Fault) String() string {
	switch f {
	case MissingMessage:
		return "MissingMessage"
	case CorruptedMessage:
		return "CorruptedMessage"
	case ProtocolFault:
		return "ProtocolFault"
	default:
		return fmt.Sprintf("Fault(%d)", uint8(f))
	}
}

// UnmarshalCBOR rejects unknown fault values.
func (f *Fault) UnmarshalCBOR(data []byte) error {
	var v uint8
	if err := cbor.Unmarshal(data, &v); err != nil {
		return err
	}
	if Fault(v) < MissingMessage || Fault(v) > ProtocolFault {
		return fmt.Errorf("protocol: invalid fault %d", v)
	}
	*f = Fault(v)
	return nil
}
