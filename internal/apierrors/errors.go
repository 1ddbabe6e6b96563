// Package apierrors provides shared error types for the hcs client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no authorization token is provided.
	ErrMissingToken = errors.New("authorization token is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrUnauthorized is returned when the authorization token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired authorization token")

	// ErrRateLimited is returned when the server rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrKeyFormat is returned when the server RSA public key cannot be parsed.
	ErrKeyFormat = errors.New("malformed RSA public key")

	// ErrUnsupportedKeypadType is returned when the server issues a keypad
	// that is not a numeric keypad.
	ErrUnsupportedKeypadType = errors.New("unsupported keypad type")

	// ErrInvalidInputCharacter is returned when the password contains a
	// character that is not on the keypad.
	ErrInvalidInputCharacter = errors.New("invalid input character")

	// ErrPasswordLength is returned when the password is not exactly 4 digits.
	ErrPasswordLength = errors.New("password must be exactly 4 digits")

	// ErrPasswordNotSet is returned when the account has no password configured.
	ErrPasswordNotSet = errors.New("no password is set for this account")

	// ErrAuthorizationRejected is returned when the server rejects the password.
	ErrAuthorizationRejected = errors.New("authorization rejected")

	// ErrAccountLocked is returned when the failed-attempt counter has
	// reached the server threshold.
	ErrAccountLocked = errors.New("account locked")

	// ErrUnexpectedResponse is returned when a response matches none of the
	// known response shapes.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// APIError represents an HTTP error from the portal.
type APIError struct {
	StatusCode int
	Message    string
	ErrorCode  int
}

func (e *APIError) Error() string {
	if e.ErrorCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (code: %d)", e.StatusCode, e.Message, e.ErrorCode)
		}
		return fmt.Sprintf("API error %d (code: %d)", e.StatusCode, e.ErrorCode)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// Temporary reports whether the request may succeed if repeated.
func (e *APIError) Temporary() bool {
	switch e.StatusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure (network error or
// a temporary HTTP status) as opposed to a definitive server answer.
func IsTransport(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}
