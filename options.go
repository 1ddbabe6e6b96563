package hcs

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL       = "https://hcs.eduro.go.kr"
	defaultTimeout       = 30 * time.Second
	defaultLockThreshold = 5
	defaultKeyIndex      = "32"
	defaultMaxAttempts   = 2
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryOn    []int

	logger        zerolog.Logger
	lockThreshold int
	keyIndex      string
	random        io.Reader
	maxAttempts   int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the portal base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for idempotent portal calls.
// Password submissions are never retried.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithLogger sets the structured logger. Default: zerolog.Nop().
// Passwords and key material are never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithLockThreshold sets the failure count at which the portal locks the
// account. Default: 5
func WithLockThreshold(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.lockThreshold = n
		}
	}
}

// WithKeyIndex sets the key index sent alongside the session key.
// Default: "32"
func WithKeyIndex(index string) Option {
	return func(c *clientConfig) {
		if index != "" {
			c.keyIndex = index
		}
	}
}

// WithRandom sets the random source for session keys and nonces.
// The reader must be safe for concurrent use when Login is called from
// several goroutines. Default: crypto/rand.Reader
func WithRandom(r io.Reader) Option {
	return func(c *clientConfig) {
		c.random = r
	}
}

// WithMaxAttempts sets how many times a login is started from scratch,
// with a fresh session key and keypad, after a transport failure that
// happened before the password was submitted. Default: 2
func WithMaxAttempts(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}
