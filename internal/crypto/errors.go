package crypto

import (
	"errors"

	"github.com/hcskit/client-go/internal/apierrors"
)

var (
	// ErrKeyFormat is returned when the server public key cannot be decoded
	// or is not an RSA key.
	ErrKeyFormat = apierrors.ErrKeyFormat

	// ErrNoPublicKey is returned when RSA encryption is attempted before
	// SetPublicKey.
	ErrNoPublicKey = errors.New("public key not set")

	// ErrSessionNotInitialized is returned when key material is used before
	// Initialize.
	ErrSessionNotInitialized = errors.New("session key not generated")

	// ErrSessionReused is returned when Initialize is called on a session
	// that already holds a key.
	ErrSessionReused = errors.New("session key already generated")

	// ErrInvalidKeySize is returned when the block cipher key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when the IV is not one block long.
	ErrInvalidIVSize = errors.New("invalid IV size")

	// ErrBlockTooLong is returned when plaintext does not fit in one block.
	ErrBlockTooLong = errors.New("plaintext exceeds one block")
)
