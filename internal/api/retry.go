package api

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/hcskit/client-go/internal/apierrors"
)

// RetryConfig configures retry behavior for idempotent requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the initial delay between retry attempts.
	BaseDelay time.Duration
	// MaxDelay caps the delay between retry attempts.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to delays.
	Jitter float64
	// RetryableOn determines if a status code should trigger a retry.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:  DefaultMaxRetries,
		BaseDelay:   DefaultRetryDelay,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
		RetryableOn: defaultRetryableOn,
	}
}

func defaultRetryableOn(statusCode int) bool {
	return (&apierrors.APIError{StatusCode: statusCode}).Temporary()
}

// statusSet builds a RetryableOn func from an explicit list of codes.
func statusSet(codes []int) func(int) bool {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(statusCode int) bool {
		_, ok := set[statusCode]
		return ok
	}
}

// ShouldRetry determines if a request that got statusCode should be retried.
func (r *RetryConfig) ShouldRetry(attempt int, statusCode int) bool {
	if attempt >= r.MaxRetries {
		return false
	}
	if r.RetryableOn == nil {
		return defaultRetryableOn(statusCode)
	}
	return r.RetryableOn(statusCode)
}

// ShouldRetryError determines if a request that failed with err should be
// retried. Network failures are retried; context errors never are.
func (r *RetryConfig) ShouldRetryError(attempt int, err error) bool {
	if attempt >= r.MaxRetries || err == nil {
		return false
	}
	if isContextErr(err) {
		return false
	}
	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return r.ShouldRetry(attempt, apiErr.StatusCode)
	}
	return false
}

// Delay calculates the delay before the next retry attempt with optional jitter.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// Wait blocks for the retry delay or until ctx is done.
func (r *RetryConfig) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
