package wire

import (
	"errors"
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		token string
		want  Move
	}{
		{"a1", Move{Col: 0, Row: 0}},
		{"h8", Move{Col: 7, Row: 7}},
		{"c3", Move{Col: 2, Row: 2}},
		{"e3", Move{Col: 4, Row: 2}},
		{"d6", Move{Col: 3, Row: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseMove(tt.token)
			if err != nil {
				t.Fatalf("ParseMove(%q) failed: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseMove(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
			if got.String() != tt.token {
				t.Errorf("round trip of %q produced %q", tt.token, got.String())
			}
		})
	}
}

func TestParseMove_Invalid(t *testing.T) {
	tokens := []string{"", "c", "c33", "i3", "c9", "c0", "C3", "3c", "cc", "33", " c3"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			if _, err := ParseMove(token); !errors.Is(err, ErrInvalidMoveFormat) {
				t.Errorf("ParseMove(%q): expected ErrInvalidMoveFormat, got %v", token, err)
			}
		})
	}
}

func TestContainsMove(t *testing.T) {
	moves := []Move{{Col: 2, Row: 2}, {Col: 4, Row: 2}, {Col: 2, Row: 4}}

	if !ContainsMove(moves, Move{Col: 4, Row: 2}) {
		t.Errorf("expected e3 to be in the list")
	}
	if ContainsMove(moves, Move{Col: 0, Row: 0}) {
		t.Errorf("did not expect a1 to be in the list")
	}
	if ContainsMove(nil, Move{Col: 0, Row: 0}) {
		t.Errorf("empty list should contain nothing")
	}
}
