package keypad

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// TypeNumber is the only keypad type the protocol supports.
const TypeNumber = "number"

// blockOverhead is the number of plaintext bytes besides the coordinate
// digits: two separators, the marker and the nonce.
const blockOverhead = 4

// blockSize is the cipher block size the coordinate block must fit in.
const blockSize = 16

// Coordinate is the position of a key on the virtual keypad.
type Coordinate struct {
	X int
	Y int
}

// Layout maps keypad labels to coordinates for one login attempt.
// A Layout is immutable once created.
type Layout struct {
	keypadType string
	labels     []rune
	positions  []Coordinate
}

// NewLayout validates and builds a keypad layout. labels and positions are
// index-aligned.
func NewLayout(keypadType string, labels []string, positions []Coordinate) (*Layout, error) {
	if keypadType != TypeNumber {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKeypadType, keypadType)
	}
	if len(labels) != len(positions) {
		return nil, fmt.Errorf("%w: %d labels, %d positions", ErrLayoutMismatch, len(labels), len(positions))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrLayoutMismatch)
	}

	l := &Layout{
		keypadType: keypadType,
		labels:     make([]rune, len(labels)),
		positions:  make([]Coordinate, len(positions)),
	}
	for i, label := range labels {
		r, size := utf8.DecodeRuneInString(label)
		if r == utf8.RuneError || size != len(label) {
			return nil, fmt.Errorf("%w: label %d is %q, want one character", ErrLayoutMismatch, i, label)
		}
		l.labels[i] = r
	}
	for i, pos := range positions {
		if pos.X < 0 || pos.Y < 0 {
			return nil, fmt.Errorf("%w: negative coordinate at %d", ErrLayoutMismatch, i)
		}
		if n := len(strconv.Itoa(pos.X)) + len(strconv.Itoa(pos.Y)) + blockOverhead; n > blockSize {
			return nil, fmt.Errorf("%w: coordinate at %d needs %d bytes", ErrLayoutMismatch, i, n)
		}
		l.positions[i] = pos
	}
	return l, nil
}

// Type returns the keypad type.
func (l *Layout) Type() string {
	return l.keypadType
}

// Len returns the number of keys.
func (l *Layout) Len() int {
	return len(l.labels)
}

// Lookup returns the coordinate of the key labelled ch. Only decimal digits
// are valid input.
func (l *Layout) Lookup(ch rune) (Coordinate, error) {
	if ch < '0' || ch > '9' {
		return Coordinate{}, fmt.Errorf("%w: %q is not a digit", ErrInvalidInputCharacter, ch)
	}
	for i, label := range l.labels {
		if label == ch {
			return l.positions[i], nil
		}
	}
	return Coordinate{}, fmt.Errorf("%w: %q is not on the keypad", ErrInvalidInputCharacter, ch)
}
