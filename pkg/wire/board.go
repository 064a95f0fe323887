package wire

import "fmt"

// BoardSize is the side length of the fixed 8x8 grid.
const BoardSize = 8

// Board is the 8x8 grid of tiles, row-major with row 0 at the top.
type Board [BoardSize][BoardSize]Tile

// NewBoard returns an all-empty board.
func NewBoard() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
	return b
}

// Get returns the tile at the given zero-based column and row.
func (b Board) Get(col, row int) Tile {
	return b[row][col]
}

// Set places a tile at the given zero-based column and row.
func (b *Board) Set(col, row int, t Tile) {
	b[row][col] = t
}

// DecodeBoard parses the eight board lines of a turn request. Decoding is
// all-or-nothing: any wrong line count, wrong line length or invalid
// character fails with ErrMalformedBoard.
func DecodeBoard(lines []string) (Board, error) {
	var b Board
	if len(lines) != BoardSize {
		return b, fmt.Errorf("%w: expected %d lines, got %d", ErrMalformedBoard, BoardSize, len(lines))
	}
	for r, line := range lines {
		if len(line) != BoardSize {
			return b, fmt.Errorf("%w: line %d has %d characters", ErrMalformedBoard, r+1, len(line))
		}
		for c := 0; c < BoardSize; c++ {
			t, err := ParseTile(line[c])
			if err != nil {
				return b, err
			}
			b[r][c] = t
		}
	}
	return b, nil
}

// EncodeBoard renders a board as its eight wire lines. It is the exact
// inverse of DecodeBoard for every valid board.
func EncodeBoard(b Board) []string {
	lines := make([]string, BoardSize)
	for r := 0; r < BoardSize; r++ {
		row := make([]byte, BoardSize)
		for c := 0; c < BoardSize; c++ {
			row[c] = byte(b[r][c])
		}
		lines[r] = string(row)
	}
	return lines
}
