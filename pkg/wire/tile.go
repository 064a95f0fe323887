package wire

import "fmt"

// Tile represents the occupancy state of a single board cell. The wire
// representation is fixed: '.' empty, 'X' black, 'O' white.
type Tile byte

const (
	Empty Tile = '.'
	Black Tile = 'X'
	White Tile = 'O'
)

// ParseTile converts a wire character into a Tile.
func ParseTile(c byte) (Tile, error) {
	switch t := Tile(c); t {
	case Empty, Black, White:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: invalid tile character %q", ErrMalformedBoard, c)
	}
}

// ParsePlayer converts a wire character into a player Tile. Unlike ParseTile
// it rejects '.', since a next-player line must name an actual player.
func ParsePlayer(c byte) (Tile, error) {
	switch t := Tile(c); t {
	case Black, White:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: invalid next-player character %q", ErrMalformedBoard, c)
	}
}

func (t Tile) Valid() bool {
	return t == Empty || t == Black || t == White
}

func (t Tile) String() string {
	return string(byte(t))
}
