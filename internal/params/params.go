package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8
	StatParam = 80

	// ZKModIterations is the number of iterations that are performed to prove the validity of
	// a Paillier-Blum modulus N.
	// The challenges are derived from the prover's identity and the modulus itself,
	// so the prover cannot grind for a favourable set of challenges.
	ZKModIterations = StatParam

	// ZKPrmIterations is the number of iterations of the ring-Pedersen parameter proof.
	ZKPrmIterations = StatParam

	BitsIntModN  = 8 * SecParam    // = 2048
	BytesIntModN = BitsIntModN / 8 // = 256

	BitsBlumPrime = 4 * SecParam      // = 1024
	BitsPaillier  = 2 * BitsBlumPrime // = 2048

	// BitsPaillierMin is the smallest accepted Paillier modulus: two primes of BitsBlumPrime-1 bits.
	BitsPaillierMin = BitsPaillier - 3 // = 2045

	BytesPaillier   = BitsPaillier / 8  // = 256
	BytesCiphertext = 2 * BytesPaillier // = 512

	BytesScalar = 32
	BytesPoint  = 33

	// KeygenMaxMsgInLen bounds the size of any incoming keygen message.
	KeygenMaxMsgInLen = 150000
	// SignMaxMsgInLen bounds the size of any incoming sign message.
	SignMaxMsgInLen = 20000

	// SessionNonceMinLen and SessionNonceMaxLen bound the session nonce given to keygen.
	SessionNonceMinLen = 4
	SessionNonceMaxLen = 256

	// SecretRecoveryKeyLen is the length of the long-term secret seeding keygen randomness.
	SecretRecoveryKeyLen = 64
)
