package crypto

const (
	// BlockSize is the SEED block size in bytes.
	BlockSize = 16

	// SEEDKeySize is the size of a SEED-128 key in bytes.
	SEEDKeySize = 16

	// SessionKeyEntropy is the number of random bytes behind a session key.
	SessionKeyEntropy = 8

	// SessionKeyHexSize is the length of the session key hex string, which
	// is also the number of key digits.
	SessionKeyHexSize = 2 * SessionKeyEntropy

	// InstanceIDSize is the number of random bytes in a session instance id.
	InstanceIDSize = 32
)
