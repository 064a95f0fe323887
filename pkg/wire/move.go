package wire

import "fmt"

// Move is a single board coordinate, zero-based. The textual form is exactly
// two characters: column letter 'a'..'h' followed by row digit '1'..'8'.
// Tokens are lowercase only; no case folding is applied.
type Move struct {
	Col int
	Row int
}

// ParseMove decodes a two-character move token.
func ParseMove(token string) (Move, error) {
	if len(token) != 2 {
		return Move{}, fmt.Errorf("%w: token %q has length %d", ErrInvalidMoveFormat, token, len(token))
	}
	c := token[0]
	if c < 'a' || c > 'h' {
		return Move{}, fmt.Errorf("%w: token %q has out-of-range column", ErrInvalidMoveFormat, token)
	}
	d := token[1]
	if d < '1' || d > '8' {
		return Move{}, fmt.Errorf("%w: token %q has out-of-range row", ErrInvalidMoveFormat, token)
	}
	return Move{Col: int(c - 'a'), Row: int(d - '1')}, nil
}

// Valid reports whether both coordinates are on the board.
func (m Move) Valid() bool {
	return m.Col >= 0 && m.Col < BoardSize && m.Row >= 0 && m.Row < BoardSize
}

// String renders the move token. It is the exact inverse of ParseMove for
// every valid move.
func (m Move) String() string {
	return string([]byte{byte('a' + m.Col), byte('1' + m.Row)})
}

// ContainsMove reports whether m is a member of the move list.
func ContainsMove(moves []Move, m Move) bool {
	for _, cand := range moves {
		if cand == m {
			return true
		}
	}
	return false
}
