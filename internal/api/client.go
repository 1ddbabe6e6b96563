package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hcskit/client-go/internal/apierrors"
)

const (
	// DefaultBaseURL is the production portal.
	DefaultBaseURL = "https://hcs.eduro.go.kr"
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the retry budget for idempotent calls.
	DefaultMaxRetries = 2
	// DefaultRetryDelay is the first backoff delay.
	DefaultRetryDelay = 500 * time.Millisecond
	// DefaultUserAgent mimics the mobile browser the portal is built for.
	DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.0.3 Mobile/15E148 Safari/604.1"

	maxResponseBytes = 1 << 20
)

// Config holds the settings for [NewClient].
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Token is the portal authorization token. Required.
	Token string
	// HTTPClient overrides the underlying client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the retry budget for idempotent calls. Zero disables retries.
	MaxRetries int
	// RetryDelay defaults to DefaultRetryDelay.
	RetryDelay time.Duration
	// RetryOn lists the status codes that trigger a retry. Nil means the
	// transient set (408, 429, 500, 502, 503, 504).
	RetryOn []int
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
}

// Client is the portal HTTP client.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	retry     *RetryConfig

	mu         sync.RWMutex
	httpClient *http.Client
}

// NewClient creates a client from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, apierrors.ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	retry.BaseDelay = cfg.RetryDelay
	if cfg.RetryOn != nil {
		retry.RetryableOn = statusSet(cfg.RetryOn)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		retry:      retry,
		httpClient: httpClient,
	}, nil
}

// Option configures a client created with [New].
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithRetries sets the retry budget for idempotent calls.
func WithRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetryOn sets the status codes that trigger a retry.
func WithRetryOn(codes []int) Option {
	return func(c *Config) {
		c.RetryOn = codes
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// New creates a client with default settings adjusted by opts.
func New(token string, opts ...Option) (*Client, error) {
	cfg := Config{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpClient
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = client
}

// Do sends a JSON request and decodes the JSON response into result.
// Failures matching the retry policy are retried with backoff. Only use Do
// for requests that are safe to repeat.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		status, respBody, err := c.send(ctx, method, path, data, attempt+1)
		if err == nil && status >= 400 {
			err = parseErrorResponse(status, respBody)
		}
		if err == nil {
			return decodeBody(respBody, result)
		}
		if !c.retry.ShouldRetryError(attempt, err) {
			return err
		}
		if werr := c.retry.Wait(ctx, attempt); werr != nil {
			return werr
		}
	}
}

// send performs exactly one HTTP exchange and returns the status and the
// fully read body. HTTP error statuses are not converted to errors.
func (c *Client) send(ctx context.Context, method, path string, data []byte, attempt int) (int, []byte, error) {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, data != nil)

	resp, err := c.HTTPClient().Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, &apierrors.NetworkError{Err: err, URL: url, Attempt: attempt}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, &apierrors.NetworkError{Err: err, URL: url, Attempt: attempt}
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	h := req.Header
	h.Set("Authorization", c.token)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Origin", c.baseURL)
	h.Set("Referer", c.baseURL+"/")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-site")
	h.Set("User-Agent", c.userAgent)
	h.Set("X-Requested-With", "XMLHttpRequest")
	if hasBody {
		h.Set("Content-Type", "application/json;charset=UTF-8")
	}
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return data, nil
}

func decodeBody(data []byte, result any) error {
	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		if result != nil {
			return fmt.Errorf("%w: empty body", apierrors.ErrUnexpectedResponse)
		}
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: decode response: %v", apierrors.ErrUnexpectedResponse, err)
	}
	return nil
}

// isContextErr reports whether err came from ctx cancellation.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
