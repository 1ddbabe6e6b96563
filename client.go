package hcs

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hcskit/client-go/internal/api"
)

// Client submits keypad-encrypted passwords to the self-check portal.
// A Client is safe for concurrent use; every Login owns its own session.
type Client struct {
	apiClient *api.Client
	cfg       clientConfig
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(token string, cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.retries >= 0 {
		apiOpts = append(apiOpts, api.WithRetries(cfg.retries))
	}
	if len(cfg.retryOn) > 0 {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	return api.New(token, apiOpts...)
}

// New creates a client for the account identified by token. It performs
// no network calls.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &clientConfig{
		baseURL:       defaultBaseURL,
		timeout:       defaultTimeout,
		retries:       api.DefaultMaxRetries,
		logger:        zerolog.Nop(),
		lockThreshold: defaultLockThreshold,
		keyIndex:      defaultKeyIndex,
		maxAttempts:   defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(token, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient: apiClient,
		cfg:       *cfg,
		log:       cfg.logger.With().Str("component", "hcs").Logger(),
	}, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// HasPassword reports whether the account has a password configured.
func (c *Client) HasPassword(ctx context.Context) (bool, error) {
	if err := c.checkClosed(); err != nil {
		return false, err
	}
	ok, err := c.apiClient.HasPassword(ctx)
	if err != nil {
		return false, wrapError(err)
	}
	return ok, nil
}

// Close marks the client closed. Logins already in flight finish normally.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
