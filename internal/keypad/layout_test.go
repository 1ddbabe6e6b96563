package keypad

import (
	"errors"
	"testing"
)

var digitLabels = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

var testPositions = []Coordinate{
	{45, 240}, {12, 23}, {78, 23}, {144, 23},
	{12, 89}, {78, 89}, {144, 89},
	{12, 155}, {78, 155}, {144, 155},
}

func testLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := NewLayout(TypeNumber, digitLabels, testPositions)
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	return l
}

func TestNewLayout(t *testing.T) {
	l := testLayout(t)
	if l.Type() != TypeNumber {
		t.Errorf("Type() = %q, want %q", l.Type(), TypeNumber)
	}
	if l.Len() != 10 {
		t.Errorf("Len() = %d, want 10", l.Len())
	}
}

func TestNewLayout_UnsupportedType(t *testing.T) {
	for _, typ := range []string{"", "qwerty", "NUMBER", "alpha"} {
		_, err := NewLayout(typ, digitLabels, testPositions)
		if !errors.Is(err, ErrUnsupportedKeypadType) {
			t.Errorf("NewLayout(%q) = %v, want ErrUnsupportedKeypadType", typ, err)
		}
	}
}

func TestNewLayout_Mismatch(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		positions []Coordinate
	}{
		{"length mismatch", digitLabels, testPositions[:9]},
		{"empty", nil, nil},
		{"multi-character label", []string{"12"}, []Coordinate{{1, 2}}},
		{"empty label", []string{""}, []Coordinate{{1, 2}}},
		{"negative coordinate", []string{"1"}, []Coordinate{{-1, 2}}},
		{"coordinate too long", []string{"1"}, []Coordinate{{1234567, 12345}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(TypeNumber, tt.labels, tt.positions)
			if !errors.Is(err, ErrLayoutMismatch) {
				t.Errorf("NewLayout() = %v, want ErrLayoutMismatch", err)
			}
		})
	}
}

func TestNewLayout_LongestCoordinateFits(t *testing.T) {
	// 6 + 6 digits + 4 bytes of overhead is exactly one block.
	if _, err := NewLayout(TypeNumber, []string{"1"}, []Coordinate{{123456, 654321}}); err != nil {
		t.Errorf("NewLayout() error = %v", err)
	}
}

func TestNewLayout_CopiesInput(t *testing.T) {
	positions := append([]Coordinate(nil), testPositions...)
	l, err := NewLayout(TypeNumber, digitLabels, positions)
	if err != nil {
		t.Fatal(err)
	}
	positions[1] = Coordinate{999, 999}

	got, _ := l.Lookup('1')
	if got != (Coordinate{12, 23}) {
		t.Errorf("Lookup('1') = %v after caller mutation, want {12 23}", got)
	}
}

func TestLayout_Lookup(t *testing.T) {
	l := testLayout(t)
	for i, label := range digitLabels {
		got, err := l.Lookup(rune(label[0]))
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", label, err)
		}
		if got != testPositions[i] {
			t.Errorf("Lookup(%q) = %v, want %v", label, got, testPositions[i])
		}
	}
}

func TestLayout_Lookup_ShuffledLabels(t *testing.T) {
	labels := []string{"7", "3", "0", "9", "1", "8", "2", "6", "4", "5"}
	l, err := NewLayout(TypeNumber, labels, testPositions)
	if err != nil {
		t.Fatal(err)
	}
	got, err := l.Lookup('7')
	if err != nil {
		t.Fatal(err)
	}
	if got != testPositions[0] {
		t.Errorf("Lookup('7') = %v, want %v", got, testPositions[0])
	}
}

func TestLayout_Lookup_InvalidCharacter(t *testing.T) {
	l := testLayout(t)
	for _, ch := range []rune{'a', 'Z', ' ', '-', '٣', '１'} {
		if _, err := l.Lookup(ch); !errors.Is(err, ErrInvalidInputCharacter) {
			t.Errorf("Lookup(%q) = %v, want ErrInvalidInputCharacter", ch, err)
		}
	}
}

func TestLayout_Lookup_DigitNotOnKeypad(t *testing.T) {
	l, err := NewLayout(TypeNumber, []string{"1", "2"}, []Coordinate{{1, 1}, {2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Lookup('5'); !errors.Is(err, ErrInvalidInputCharacter) {
		t.Errorf("Lookup('5') = %v, want ErrInvalidInputCharacter", err)
	}
}
