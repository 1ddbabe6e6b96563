package crypto

import (
	"crypto/cipher"
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Session is the cryptographic context of a single login attempt. It owns
// the attempt's randomness, the server public key and the session key.
// A Session is not safe for concurrent use and must not be reused.
type Session struct {
	rand      io.Reader
	newCipher CipherFactory

	instanceID string
	keyHex     string
	key        [SEEDKeySize]byte
	block      cipher.Block
	pub        *rsa.PublicKey
	used       bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRandom sets the random source for key generation and nonces.
func WithRandom(r io.Reader) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithCipherFactory replaces the SEED block primitive.
func WithCipherFactory(f CipherFactory) SessionOption {
	return func(s *Session) {
		if f != nil {
			s.newCipher = f
		}
	}
}

// NewSession creates an empty session. Call SetPublicKey and Initialize
// before using it.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		rand:      crand.Reader,
		newCipher: NewSEEDCipher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize generates the instance id and the session key.
func (s *Session) Initialize() error {
	if s.used {
		return ErrSessionReused
	}
	s.used = true

	id := make([]byte, InstanceIDSize)
	if _, err := io.ReadFull(s.rand, id); err != nil {
		return fmt.Errorf("failed to generate instance id: %w", err)
	}

	raw := make([]byte, SessionKeyEntropy)
	if _, err := io.ReadFull(s.rand, raw); err != nil {
		return fmt.Errorf("failed to generate session key: %w", err)
	}
	keyHex := hex.EncodeToString(raw)

	var key [SEEDKeySize]byte
	for i := 0; i < SessionKeyHexSize; i++ {
		key[i] = hexValue(keyHex[i])
	}

	block, err := s.newCipher(key[:])
	if err != nil {
		return err
	}

	s.instanceID = hex.EncodeToString(id)
	s.keyHex = keyHex
	s.key = key
	s.block = block
	return nil
}

// hexValue returns the numeric value of a lowercase hex character.
func hexValue(c byte) byte {
	if c >= 'a' {
		return c - 'a' + 10
	}
	return c - '0'
}

// InstanceID returns the hex instance id, or "" before Initialize.
func (s *Session) InstanceID() string {
	return s.instanceID
}

// KeyDigits returns a copy of the 16 session key digits, each in [0,15].
func (s *Session) KeyDigits() ([]byte, error) {
	if s.keyHex == "" {
		return nil, ErrSessionNotInitialized
	}
	out := make([]byte, SEEDKeySize)
	copy(out, s.key[:])
	return out, nil
}

// SetPublicKey imports the server RSA public key from base64.
func (s *Session) SetPublicKey(b64 string) error {
	pub, err := ParsePublicKey(b64)
	if err != nil {
		return err
	}
	s.pub = pub
	return nil
}

// EncryptSessionKey wraps the session key hex string for the server.
func (s *Session) EncryptSessionKey() (string, error) {
	if s.keyHex == "" {
		return "", ErrSessionNotInitialized
	}
	if s.pub == nil {
		return "", ErrNoPublicKey
	}
	return encryptOAEP(s.pub, []byte(s.keyHex))
}

// EncryptKeyIndex wraps the auxiliary key index with the same RSA-OAEP
// primitive as the session key.
func (s *Session) EncryptKeyIndex(index string) (string, error) {
	if s.pub == nil {
		return "", ErrNoPublicKey
	}
	return encryptOAEP(s.pub, []byte(index))
}

// HMAC returns the hex HMAC-SHA-256 of message keyed by the session key
// hex string.
func (s *Session) HMAC(message []byte) (string, error) {
	if s.keyHex == "" {
		return "", ErrSessionNotInitialized
	}
	mac := hmac.New(sha256.New, []byte(s.keyHex))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// EncryptBlock zero-fills plaintext to one block and encrypts it with the
// session key in CBC mode under iv.
func (s *Session) EncryptBlock(iv, plaintext []byte) ([]byte, error) {
	if s.block == nil {
		return nil, ErrSessionNotInitialized
	}
	return EncryptCBCBlock(s.block, iv, plaintext)
}

// RandomByte returns a uniformly distributed byte in [0, max].
func (s *Session) RandomByte(max byte) (byte, error) {
	n := int(max) + 1
	limit := 256 - 256%n
	var b [1]byte
	for {
		if _, err := io.ReadFull(s.rand, b[:]); err != nil {
			return 0, fmt.Errorf("failed to read random byte: %w", err)
		}
		if int(b[0]) < limit {
			return byte(int(b[0]) % n), nil
		}
	}
}

// Destroy zeroes the key material. The session cannot be used afterwards.
func (s *Session) Destroy() {
	for i := range s.key {
		s.key[i] = 0
	}
	s.keyHex = ""
	s.block = nil
	s.pub = nil
}
