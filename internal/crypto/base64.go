package crypto

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64 decodes standard or URL-safe base64, with or without padding.
// Whitespace anywhere in the input and surplus trailing padding are ignored;
// the portal's published key carries both.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimRight(s, "=")

	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// ToBase64 encodes bytes to standard base64 with padding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
