package crypto

import (
	"crypto/cipher"
	"fmt"

	"github.com/RyuaNerin/go-krypto/seed"
)

// CipherFactory builds a 128-bit block cipher from raw key bytes.
type CipherFactory func(key []byte) (cipher.Block, error)

// NewSEEDCipher returns a SEED-128 block cipher for a 16-byte key.
func NewSEEDCipher(key []byte) (cipher.Block, error) {
	if len(key) != SEEDKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), SEEDKeySize)
	}
	block, err := seed.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create SEED cipher: %w", err)
	}
	return block, nil
}

// ZeroFill returns data extended with zero bytes to size. Data already at
// least size bytes long is returned as a copy, unchanged.
func ZeroFill(data []byte, size int) []byte {
	n := len(data)
	if n < size {
		n = size
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

// EncryptCBCBlock zero-fills plaintext to one block and encrypts it in CBC
// mode under iv.
func EncryptCBCBlock(block cipher.Block, iv, plaintext []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), bs)
	}
	if len(plaintext) > bs {
		return nil, fmt.Errorf("%w: got %d bytes", ErrBlockTooLong, len(plaintext))
	}

	padded := ZeroFill(plaintext, bs)
	out := make([]byte, bs)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}
