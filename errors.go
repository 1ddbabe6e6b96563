package hcs

import (
	"errors"
	"fmt"

	"github.com/hcskit/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no authorization token is provided.
	ErrMissingToken = apierrors.ErrMissingToken

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = apierrors.ErrClientClosed

	// ErrUnauthorized is returned when the token is invalid or expired.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrRateLimited is returned when the portal rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrKeyFormat is returned when the server public key is malformed.
	ErrKeyFormat = apierrors.ErrKeyFormat

	// ErrUnsupportedKeypadType is returned when the server issues a
	// non-numeric keypad.
	ErrUnsupportedKeypadType = apierrors.ErrUnsupportedKeypadType

	// ErrInvalidInputCharacter is returned when the password contains a
	// character that is not a keypad digit.
	ErrInvalidInputCharacter = apierrors.ErrInvalidInputCharacter

	// ErrPasswordLength is returned when the password is not 4 digits.
	ErrPasswordLength = apierrors.ErrPasswordLength

	// ErrPasswordNotSet is returned when the account has no password.
	ErrPasswordNotSet = apierrors.ErrPasswordNotSet

	// ErrAuthorizationRejected is returned when the server refuses the password.
	ErrAuthorizationRejected = apierrors.ErrAuthorizationRejected

	// ErrAccountLocked is returned when the failure counter reached the lock threshold.
	ErrAccountLocked = apierrors.ErrAccountLocked

	// ErrUnexpectedResponse is returned when the portal answers with an
	// unknown shape.
	ErrUnexpectedResponse = apierrors.ErrUnexpectedResponse

	// ErrInvalidTransition is returned when an attempt skips or repeats a state.
	ErrInvalidTransition = errors.New("invalid attempt state transition")
)

// HCSError is implemented by all typed errors of this package.
type HCSError interface {
	error
	HCSError() // marker method
}

// AuthorizationRejectedError is returned when the portal refuses the
// password but the account is not locked yet. The caller may try again
// with another password.
type AuthorizationRejectedError struct {
	FailCount int
	Threshold int
	ErrorCode int
}

func (e *AuthorizationRejectedError) Error() string {
	return fmt.Sprintf("authorization rejected: %d of %d failed attempts", e.FailCount, e.Threshold)
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthorizationRejectedError) Is(target error) bool {
	return target == ErrAuthorizationRejected
}

// Retryable reports whether another attempt can be made before the lock.
func (e *AuthorizationRejectedError) Retryable() bool {
	return e.FailCount < e.Threshold
}

// Remaining returns the number of attempts left before the account locks.
func (e *AuthorizationRejectedError) Remaining() int {
	if n := e.Threshold - e.FailCount; n > 0 {
		return n
	}
	return 0
}

// HCSError implements the HCSError interface.
func (e *AuthorizationRejectedError) HCSError() {}

// AccountLockedError is returned when the failure counter reached the
// threshold. No further attempt will succeed until the portal unlocks it.
type AccountLockedError struct {
	FailCount int
	Threshold int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked after %d failed attempts", e.FailCount)
}

// Is implements errors.Is for sentinel error matching.
func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// HCSError implements the HCSError interface.
func (e *AccountLockedError) HCSError() {}

// APIError represents an HTTP error from the portal.
type APIError struct {
	StatusCode int
	Message    string
	ErrorCode  int
}

func (e *APIError) Error() string {
	return (&apierrors.APIError{StatusCode: e.StatusCode, Message: e.Message, ErrorCode: e.ErrorCode}).Error()
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

// HCSError implements the HCSError interface.
func (e *APIError) HCSError() {}

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

// HCSError implements the HCSError interface.
func (e *NetworkError) HCSError() {}

// Keypad stages reported by KeypadError.
const (
	StagePublicKey  = "public key"
	StageSessionKey = "session key"
	StageLayout     = "layout"
	StageEncode     = "encode"
	StagePayload    = "payload"
)

// KeypadError is a local failure while preparing the encrypted password.
// Nothing was sent to the portal for the attempt.
type KeypadError struct {
	Stage string
	Err   error
}

func (e *KeypadError) Error() string {
	return fmt.Sprintf("keypad %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeypadError) Unwrap() error {
	return e.Err
}

// HCSError implements the HCSError interface.
func (e *KeypadError) HCSError() {}

// wrapError converts internal transport errors to public errors so callers
// can use errors.As with this package's types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			ErrorCode:  apiErr.ErrorCode,
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
