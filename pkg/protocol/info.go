package protocol

import (
	"github.com/rs/zerolog"

	"github.com/axelarnetwork/tofn-sub002/pkg/collections"
)

// Info represents static information about a specific protocol execution, as seen by one share.
// It is passed to every round executer.
type Info[K any] struct {
	shareCount int
	shareID    collections.TypedIndex[K]
	round      int
	log        zerolog.Logger
}

// TotalShareCount is the number of shares participating in this protocol.
func (i *Info[K]) TotalShareCount() int {
	return i.shareCount
}

// MyID is the share id of this participant.
func (i *Info[K]) MyID() collections.TypedIndex[K] {
	return i.shareID
}

// Round is the number of the round currently being executed, starting at 1.
func (i *Info[K]) Round() int {
	return i.round
}

// Log returns a logger annotated with the share, party and round.
func (i *Info[K]) Log() *zerolog.Logger {
	return &i.log
}

// PartyInfo extends Info with party-level addressing.
type PartyInfo[K, P any] struct {
	partyShareCounts PartyShareCounts[P]
	partyID          collections.TypedIndex[P]
	share            Info[K]
	base             zerolog.Logger
}

func newPartyInfo[K, P any](psc PartyShareCounts[P], shareID collections.TypedIndex[K], logger zerolog.Logger) (PartyInfo[K, P], error) {
	partyID, err := ShareToPartyID[K](psc, shareID)
	if err != nil {
		return PartyInfo[K, P]{}, err
	}
	base := logger.With().Int("share", shareID.Int()).Int("party", partyID.Int()).Logger()
	info := PartyInfo[K, P]{
		partyShareCounts: psc,
		partyID:          partyID,
		share: Info[K]{
			shareCount: psc.TotalShareCount(),
			shareID:    shareID,
		},
		base: base,
	}
	info.setRound(1)
	return info, nil
}

func (i *PartyInfo[K, P]) setRound(round int) {
	i.share.round = round
	i.share.log = i.base.With().Int("round", round).Logger()
}

func (i *PartyInfo[K, P]) advanceRound() {
	i.setRound(i.share.round + 1)
}

// PartyShareCounts returns the share counts of all parties.
func (i *PartyInfo[K, P]) PartyShareCounts() PartyShareCounts[P] {
	return i.partyShareCounts
}

// PartyID is the party owning this share.
func (i *PartyInfo[K, P]) PartyID() collections.TypedIndex[P] {
	return i.partyID
}

// ShareInfo returns the share-level view passed to executers.
func (i *PartyInfo[K, P]) ShareInfo() *Info[K] {
	return &i.share
}

// Log returns the logger for the current round.
func (i *PartyInfo[K, P]) Log() *zerolog.Logger {
	return &i.share.log
}

// NewInfoForTest returns an Info suitable for calling executers directly in tests.
func NewInfoForTest[K any](shareCount int, shareID collections.TypedIndex[K], round int) *Info[K] {
	return &Info[K]{shareCount: shareCount, shareID: shareID, round: round, log: zerolog.Nop()}
}

// LogFault records that faulter was detected misbehaving.
func (i *Info[K]) LogFault(faulter collections.TypedIndex[K], fault string) {
	i.log.Warn().Int("faulter", faulter.Int()).Msgf("detected [%s]", fault)
}

// LogAccuse records that this share accuses accused.
func (i *Info[K]) LogAccuse(accused collections.TypedIndex[K], fault string) {
	i.log.Warn().Int("accused", accused.Int()).Msgf("accuse [%s]", fault)
}
