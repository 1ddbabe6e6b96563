package keypad

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// PasswordLength is the number of digits in a portal password.
	PasswordLength = 4

	// IV is the protocol-mandated CBC IV for every keypad block.
	IV = "MobileTransKey10"

	// NonceMax is the largest value of the per-block nonce byte.
	NonceMax = 100

	// marker separates the coordinates from the nonce.
	marker = 'e'
)

// Cipher is the per-attempt crypto context the encoder draws on.
type Cipher interface {
	// EncryptBlock zero-fills plaintext to one block and encrypts it under iv.
	EncryptBlock(iv, plaintext []byte) ([]byte, error)
	// RandomByte returns a uniform byte in [0, max].
	RandomByte(max byte) (byte, error)
}

// Encoder encodes passwords for one login attempt.
type Encoder struct {
	cipher Cipher
	layout *Layout
}

// NewEncoder creates an encoder bound to a session cipher and layout.
func NewEncoder(c Cipher, layout *Layout) *Encoder {
	return &Encoder{cipher: c, layout: layout}
}

// EncodePassword returns the "$"-joined envelope of encrypted key presses.
// The password is fully validated before any block is encrypted.
func (e *Encoder) EncodePassword(password string) (string, error) {
	if n := utf8.RuneCountInString(password); n != PasswordLength {
		return "", fmt.Errorf("%w: got %d characters", ErrPasswordLength, n)
	}

	coords := make([]Coordinate, 0, PasswordLength)
	for _, ch := range password {
		c, err := e.layout.Lookup(ch)
		if err != nil {
			return "", err
		}
		coords = append(coords, c)
	}

	iv := []byte(IV)
	var sb strings.Builder
	for i, c := range coords {
		nonce, err := e.cipher.RandomByte(NonceMax)
		if err != nil {
			return "", fmt.Errorf("key %d: %w", i, err)
		}
		ct, err := e.cipher.EncryptBlock(iv, plainBlock(c, nonce))
		if err != nil {
			return "", fmt.Errorf("key %d: %w", i, err)
		}
		sb.WriteByte('$')
		sb.WriteString(renderBlock(ct))
	}
	return sb.String(), nil
}

// plainBlock builds "x-digits SP y-digits SP 'e' nonce", with every
// coordinate digit as its numeric value rather than its ASCII code.
func plainBlock(c Coordinate, nonce byte) []byte {
	out := make([]byte, 0, blockSize)
	out = appendDigits(out, c.X)
	out = append(out, ' ')
	out = appendDigits(out, c.Y)
	out = append(out, ' ', marker, nonce)
	return out
}

func appendDigits(dst []byte, v int) []byte {
	for _, d := range strconv.Itoa(v) {
		dst = append(dst, byte(d-'0'))
	}
	return dst
}

// renderBlock hex encodes ct with a comma between bytes.
func renderBlock(ct []byte) string {
	parts := make([]string, len(ct))
	for i, b := range ct {
		parts[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(parts, ",")
}
