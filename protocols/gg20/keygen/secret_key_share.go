package keygen

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
	"github.com/axelarnetwork/tofn-sub002/pkg/math/curve"
	"github.com/axelarnetwork/tofn-sub002/pkg/paillier"
	"github.com/axelarnetwork/tofn-sub002/pkg/pedersen"
)

// SecretKeyShare is the output of keygen for one share.
type SecretKeyShare struct {
	Group GroupPublicInfo
	Share ShareSecretInfo
}

// GroupPublicInfo is identical for every share of a keygen execution.
type GroupPublicInfo struct {
	PartyShareCounts PartyShareCounts
	Threshold        int
	// Y is the group public key.
	Y         *curve.Point
	AllShares collections.VecMap[ShareID, SharePublicInfo]
}

// SharePublicInfo is the public information of a single share.
type SharePublicInfo struct {
	// X = xᵢ⋅G
	X       *curve.Point
	EK      *paillier.PublicKey
	ZkSetup *pedersen.Parameters
}

// ShareSecretInfo is the secret part of a SecretKeyShare.
type ShareSecretInfo struct {
	Index collections.TypedIndex[ShareID]
	DK    *paillier.SecretKey
	// X = xᵢ, the Shamir share of the group secret key.
	X *curve.Scalar
}

// TotalShareCount is the number of shares in the group.
func (g *GroupPublicInfo) TotalShareCount() int {
	return g.AllShares.Len()
}

// Share returns the public information of the share with the given index.
func (g *GroupPublicInfo) Share(index collections.TypedIndex[ShareID]) (SharePublicInfo, error) {
	return g.AllShares.Get(index)
}

// secretKeyShareMarshal has the fields of SecretKeyShare without its marshalling methods.
type secretKeyShareMarshal SecretKeyShare

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *SecretKeyShare) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*secretKeyShareMarshal)(s))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler and checks that the result is consistent.
func (s *SecretKeyShare) UnmarshalBinary(data []byte) error {
	var out secretKeyShareMarshal
	if err := cbor.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("keygen: secret key share: %w", err)
	}
	share := SecretKeyShare(out)
	if err := share.validate(); err != nil {
		return fmt.Errorf("keygen: secret key share: %w", err)
	}
	*s = share
	return nil
}

func (s *SecretKeyShare) validate() error {
	total := s.Group.PartyShareCounts.TotalShareCount()
	if s.Group.AllShares.Len() != total {
		return fmt.Errorf("%d public shares for %d shares", s.Group.AllShares.Len(), total)
	}
	if s.Group.Threshold < 0 || s.Group.Threshold >= total {
		return fmt.Errorf("threshold %d out of range for %d shares", s.Group.Threshold, total)
	}
	if s.Group.Y == nil || s.Share.X == nil || s.Share.DK == nil {
		return fmt.Errorf("missing key material")
	}
	mine, err := s.Group.AllShares.Get(s.Share.Index)
	if err != nil {
		return err
	}
	if mine.X == nil || !mine.X.Equal(s.Share.X.ActOnBase()) {
		return fmt.Errorf("secret share does not match public share %d", s.Share.Index.Int())
	}
	return nil
}
