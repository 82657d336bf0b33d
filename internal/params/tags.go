package params

// Tag separates the domains of the hash functions used across the protocols.
type Tag uint8

const (
	TagYICommit Tag = iota
	TagMtaProof
	TagMtaProofWc
	TagRangeProof
	TagRangeProofWc
	TagChaumPedersenProof
	TagPedersenProof
	TagSchnorrProof
	TagGammaICommit
	TagAlternateGenerator
	TagCompositeDlogProof
	TagPaillierKeyProof
)

var tagNames = [...]string{
	"Y_I_COMMIT",
	"MTA_PROOF",
	"MTA_PROOF_WC",
	"RANGE_PROOF",
	"RANGE_PROOF_WC",
	"CHAUM_PEDERSEN_PROOF",
	"PEDERSEN_PROOF",
	"SCHNORR_PROOF",
	"GAMMA_I_COMMIT",
	"ALTERNATE_GENERATOR",
	"COMPOSITE_DLOG_PROOF",
	"PAILLIER_KEY_PROOF",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "UNKNOWN"
}

// RNGTag separates the deterministic randomness streams derived from a secret recovery key.
type RNGTag uint8

const (
	RNGKeyPair RNGTag = iota + 1
	RNGZkSetup
)
