package crypto

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q) error = %v", s, err)
	}
	return b
}

// RFC 4269 Appendix B test vectors.
func TestNewSEEDCipher_KnownAnswer(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		plaintext  string
		ciphertext string
	}{
		{
			name:       "B.1 zero key",
			key:        "00000000000000000000000000000000",
			plaintext:  "000102030405060708090a0b0c0d0e0f",
			ciphertext: "5ebac6e0054e166819aff1cc6d346cdb",
		},
		{
			name:       "B.2 zero plaintext",
			key:        "000102030405060708090a0b0c0d0e0f",
			plaintext:  "00000000000000000000000000000000",
			ciphertext: "c11f22f20140505084483597e4370f43",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := NewSEEDCipher(mustHex(t, tt.key))
			if err != nil {
				t.Fatalf("NewSEEDCipher() error = %v", err)
			}

			got := make([]byte, BlockSize)
			block.Encrypt(got, mustHex(t, tt.plaintext))
			if want := mustHex(t, tt.ciphertext); !bytes.Equal(got, want) {
				t.Errorf("Encrypt() = %x, want %x", got, want)
			}

			// CBC with an all-zero IV is plain block encryption.
			cbc, err := EncryptCBCBlock(block, make([]byte, BlockSize), mustHex(t, tt.plaintext))
			if err != nil {
				t.Fatalf("EncryptCBCBlock() error = %v", err)
			}
			if !bytes.Equal(cbc, got) {
				t.Errorf("EncryptCBCBlock() = %x, want %x", cbc, got)
			}
		})
	}
}

func TestNewSEEDCipher_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 8, 15, 17, 32} {
		if _, err := NewSEEDCipher(make([]byte, size)); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("key size %d: expected ErrInvalidKeySize, got %v", size, err)
		}
	}
}

func TestZeroFill(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", nil, make([]byte, 4)},
		{"short", []byte{1, 2}, []byte{1, 2, 0, 0}},
		{"exact", []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}},
		{"trailing zero kept ambiguous", []byte{1, 0}, []byte{1, 0, 0, 0}},
		{"long", []byte{1, 2, 3, 4, 5}, []byte{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZeroFill(tt.in, 4); !bytes.Equal(got, tt.want) {
				t.Errorf("ZeroFill() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZeroFill_DoesNotAlias(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out := ZeroFill(in, 4)
	out[0] = 9
	if in[0] != 1 {
		t.Error("ZeroFill() result aliases its input")
	}
}

// xorBlock is a cipher.Block whose encryption is the identity, so CBC output
// is plaintext XOR IV.
type xorBlock struct{}

func (xorBlock) BlockSize() int          { return BlockSize }
func (xorBlock) Encrypt(dst, src []byte) { copy(dst, src[:BlockSize]) }
func (xorBlock) Decrypt(dst, src []byte) { copy(dst, src[:BlockSize]) }

var _ cipher.Block = xorBlock{}

func TestEncryptCBCBlock_ChainsIV(t *testing.T) {
	iv := []byte("MobileTransKey10")
	got, err := EncryptCBCBlock(xorBlock{}, iv, []byte{0x01})
	if err != nil {
		t.Fatalf("EncryptCBCBlock() error = %v", err)
	}

	want := make([]byte, BlockSize)
	copy(want, iv)
	want[0] ^= 0x01
	if !bytes.Equal(got, want) {
		t.Errorf("EncryptCBCBlock() = %x, want %x", got, want)
	}
}

func TestEncryptCBCBlock_Errors(t *testing.T) {
	if _, err := EncryptCBCBlock(xorBlock{}, make([]byte, 8), nil); !errors.Is(err, ErrInvalidIVSize) {
		t.Errorf("short IV: expected ErrInvalidIVSize, got %v", err)
	}
	if _, err := EncryptCBCBlock(xorBlock{}, make([]byte, BlockSize), make([]byte, BlockSize+1)); !errors.Is(err, ErrBlockTooLong) {
		t.Errorf("long plaintext: expected ErrBlockTooLong, got %v", err)
	}
}
