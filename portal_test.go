package hcs

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hcskit/client-go/internal/api"
	"github.com/hcskit/client-go/internal/crypto"
	"github.com/hcskit/client-go/internal/keypad"
	"github.com/hcskit/client-go/internal/raon"
)

var (
	portalKeyOnce sync.Once
	portalKey     *rsa.PrivateKey
)

func testPortalKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	portalKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		portalKey = k
	})
	return portalKey
}

// fakePortal decrypts submissions the way the real portal does and checks
// them against a known password.
type fakePortal struct {
	t        *testing.T
	key      *rsa.PrivateKey
	password string

	labels    []string
	positions [][2]int

	keyboardType string
	publicKey    string
	hasPassword  bool

	failCount       atomic.Int32
	sessionFailures atomic.Int32
	submitStatus    int

	hasPasswordCalls atomic.Int32
	sessionCalls     atomic.Int32
	submissions      atomic.Int32

	mu       sync.Mutex
	requests []raon.Request
	keys     []string
}

func newFakePortal(t *testing.T, password string) (*fakePortal, *httptest.Server) {
	t.Helper()
	key := testPortalKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	p := &fakePortal{
		t:            t,
		key:          key,
		password:     password,
		labels:       []string{"3", "7", "0", "9", "1", "5", "8", "2", "6", "4"},
		positions:    [][2]int{{12, 23}, {78, 23}, {144, 23}, {12, 89}, {78, 89}, {144, 89}, {12, 155}, {78, 155}, {144, 155}, {45, 240}},
		keyboardType: keypad.TypeNumber,
		publicKey:    base64.StdEncoding.EncodeToString(der) + " ",
		hasPassword:  true,
	}
	server := httptest.NewServer(p)
	t.Cleanup(server.Close)
	return p, server
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("Authorization") != "test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case api.PathHasPassword:
		p.hasPasswordCalls.Add(1)
		json.NewEncoder(w).Encode(p.hasPassword)

	case api.PathKeypadSession:
		p.sessionCalls.Add(1)
		if p.sessionFailures.Load() > 0 {
			p.sessionFailures.Add(-1)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		positions := make([][2]string, len(p.positions))
		for i, pos := range p.positions {
			positions[i] = [2]string{strconv.Itoa(pos[0]), strconv.Itoa(pos[1])}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"publicKey":    p.publicKey,
			"keyboardType": p.keyboardType,
			"labels":       p.labels,
			"positions":    positions,
			"initTime":     1690000000000,
		})

	case api.PathValidatePassword:
		p.submissions.Add(1)
		if p.submitStatus != 0 {
			w.WriteHeader(p.submitStatus)
			return
		}
		var req raon.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			p.t.Errorf("decode submission: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got, keyHex, err := p.decrypt(req)
		p.mu.Lock()
		p.requests = append(p.requests, req)
		p.keys = append(p.keys, keyHex)
		p.mu.Unlock()
		if err != nil {
			p.t.Errorf("decrypt submission: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got == p.password {
			json.NewEncoder(w).Encode("issued-token")
			return
		}
		n := p.failCount.Add(1)
		fmt.Fprintf(w, `{"isError":true,"statusCode":252,"errorCode":1001,"data":{"failCnt":%d}}`, n)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// decrypt recovers the typed password from a submission.
func (p *fakePortal) decrypt(req raon.Request) (password, keyHex string, err error) {
	if len(req.Password.Raon) != 1 {
		return "", "", fmt.Errorf("raon has %d fields", len(req.Password.Raon))
	}
	f := req.Password.Raon[0]
	if f.ID != "password" || f.FieldType != "password" || f.KeyboardType != "number" || f.ExE2E != "false" {
		return "", "", fmt.Errorf("unexpected field constants: %+v", f)
	}
	if f.InitTime != "1690000000000" {
		return "", "", fmt.Errorf("initTime = %q", f.InitTime)
	}
	if !req.MakeSession || req.DeviceUUID != "" {
		return "", "", fmt.Errorf("outer body = %+v", req)
	}

	rawKey, err := p.unwrap(f.SeedKey)
	if err != nil {
		return "", "", fmt.Errorf("seedKey: %w", err)
	}
	keyHex = string(rawKey)
	index, err := p.unwrap(f.KeyIndex)
	if err != nil {
		return "", keyHex, fmt.Errorf("keyIndex: %w", err)
	}
	if string(index) != defaultKeyIndex {
		return "", keyHex, fmt.Errorf("keyIndex = %q", index)
	}

	// The HMAC key is the hex string; the SEED key is its digit values.
	if want := hmacHex(keyHex, f.Enc); want != f.HMAC {
		return "", keyHex, fmt.Errorf("hmac mismatch")
	}
	seedKey := make([]byte, len(keyHex))
	for i := range keyHex {
		v, _ := strconv.ParseUint(keyHex[i:i+1], 16, 8)
		seedKey[i] = byte(v)
	}
	block, err := crypto.NewSEEDCipher(seedKey)
	if err != nil {
		return "", keyHex, err
	}

	blocks := strings.Split(f.Enc, "$")
	if blocks[0] != "" {
		return "", keyHex, fmt.Errorf("envelope must start with $")
	}
	var sb strings.Builder
	for _, b := range blocks[1:] {
		ct, err := hex.DecodeString(strings.ReplaceAll(b, ",", ""))
		if err != nil || len(ct) != 16 {
			return "", keyHex, fmt.Errorf("bad block %q", b)
		}
		pt := make([]byte, 16)
		block.Decrypt(pt, ct)
		for i := range pt {
			pt[i] ^= keypad.IV[i]
		}
		digit, err := p.keyAt(pt)
		if err != nil {
			return "", keyHex, err
		}
		sb.WriteString(digit)
	}
	return sb.String(), keyHex, nil
}

func (p *fakePortal) unwrap(hexCT string) ([]byte, error) {
	ct, err := hex.DecodeString(hexCT)
	if err != nil {
		return nil, err
	}
	return rsa.DecryptOAEP(sha1.New(), nil, p.key, ct, nil)
}

// keyAt parses "x y e<nonce>" and maps the coordinate back to its label.
func (p *fakePortal) keyAt(pt []byte) (string, error) {
	parts := strings.SplitN(string(pt), " ", 3)
	if len(parts) != 3 || len(parts[2]) < 2 || parts[2][0] != 'e' || parts[2][1] > keypad.NonceMax {
		return "", fmt.Errorf("malformed block %x", pt)
	}
	for _, b := range []byte(parts[2][2:]) {
		if b != 0 {
			return "", fmt.Errorf("block not zero-filled: %x", pt)
		}
	}
	x, y := rawDigits(parts[0]), rawDigits(parts[1])
	for i, pos := range p.positions {
		if pos[0] == x && pos[1] == y {
			return p.labels[i], nil
		}
	}
	return "", fmt.Errorf("no key at (%d, %d)", x, y)
}

func hmacHex(key, msg string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func rawDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i])
	}
	return n
}

func (p *fakePortal) lastRequest() raon.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}
