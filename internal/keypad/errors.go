package keypad

import (
	"errors"

	"github.com/hcskit/client-go/internal/apierrors"
)

var (
	// ErrUnsupportedKeypadType is returned for any keypad other than "number".
	ErrUnsupportedKeypadType = apierrors.ErrUnsupportedKeypadType

	// ErrInvalidInputCharacter is returned for characters not on the keypad.
	ErrInvalidInputCharacter = apierrors.ErrInvalidInputCharacter

	// ErrPasswordLength is returned when the password is not PasswordLength
	// characters long.
	ErrPasswordLength = apierrors.ErrPasswordLength

	// ErrLayoutMismatch is returned when labels and positions do not describe
	// a usable keypad.
	ErrLayoutMismatch = errors.New("keypad labels and positions do not match")
)
