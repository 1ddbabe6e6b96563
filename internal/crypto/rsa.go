package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"fmt"
)

// ParsePublicKey decodes a base64 RSA public key in X.509
// SubjectPublicKeyInfo or PKCS#1 form.
func ParsePublicKey(b64 string) (*rsa.PublicKey, error) {
	der, err := DecodeBase64(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrKeyFormat, err)
	}
	if len(der) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrKeyFormat)
	}

	if pub, err := x509.ParsePKIXPublicKey(der); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: got %T, want RSA", ErrKeyFormat, pub)
		}
		return rsaPub, nil
	}

	rsaPub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	return rsaPub, nil
}

// encryptOAEP encrypts msg with RSA-OAEP/SHA-1 and returns lowercase hex.
// OAEP seeds come from crypto/rand, never from the session's random source.
func encryptOAEP(pub *rsa.PublicKey, msg []byte) (string, error) {
	ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, msg, nil)
	if err != nil {
		return "", fmt.Errorf("rsa-oaep: %w", err)
	}
	return hex.EncodeToString(ct), nil
}
