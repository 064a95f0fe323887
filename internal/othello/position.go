// Package othello implements the game rules: move legality, disc flipping,
// pass handling and scoring. The protocol layer trusts the GUI peer for
// legality; this package is what makes our GUI peer trustworthy.
package othello

import (
	"errors"

	"othello-arena/pkg/wire"
)

var directions = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Position is a board plus the player to move.
type Position struct {
	Board      wire.Board
	NextPlayer wire.Tile
}

// NewPosition returns the standard starting position, black to move.
func NewPosition() Position {
	b := wire.NewBoard()
	b.Set(3, 3, wire.White)
	b.Set(4, 4, wire.White)
	b.Set(3, 4, wire.Black)
	b.Set(4, 3, wire.Black)
	return Position{Board: b, NextPlayer: wire.Black}
}

// Opponent returns the other player.
func Opponent(t wire.Tile) wire.Tile {
	if t == wire.Black {
		return wire.White
	}
	return wire.Black
}

func inBoard(col, row int) bool {
	return col >= 0 && col < wire.BoardSize && row >= 0 && row < wire.BoardSize
}

// place puts the mover's disc on the square, flips captured lines and hands
// the turn to the opponent. It reports whether anything was flipped; a move
// that flips nothing is illegal. Emptiness of the target square is the
// caller's concern.
func (p *Position) place(m wire.Move) bool {
	mover := p.NextPlayer
	opp := Opponent(mover)
	p.Board.Set(m.Col, m.Row, mover)

	flipped := false
	for _, d := range directions {
		col, row := m.Col+d[0], m.Row+d[1]
		for inBoard(col, row) && p.Board.Get(col, row) == opp {
			col += d[0]
			row += d[1]
		}
		if !inBoard(col, row) || p.Board.Get(col, row) != mover {
			continue
		}
		col, row = col-d[0], row-d[1]
		for col != m.Col || row != m.Row {
			p.Board.Set(col, row, mover)
			flipped = true
			col -= d[0]
			row -= d[1]
		}
	}

	p.NextPlayer = opp
	return flipped
}

// ValidMoves returns every legal move for the player to move, in row-major
// board order.
func (p Position) ValidMoves() []wire.Move {
	var moves []wire.Move
	for row := 0; row < wire.BoardSize; row++ {
		for col := 0; col < wire.BoardSize; col++ {
			if p.Board.Get(col, row) != wire.Empty {
				continue
			}
			probe := p
			if probe.place(wire.Move{Col: col, Row: row}) {
				moves = append(moves, wire.Move{Col: col, Row: row})
			}
		}
	}
	return moves
}

func (p Position) hasMove(t wire.Tile) bool {
	probe := p
	probe.NextPlayer = t
	return len(probe.ValidMoves()) > 0
}

// IsGameOver reports whether neither player has a legal move.
func (p Position) IsGameOver() bool {
	return !p.hasMove(wire.Black) && !p.hasMove(wire.White)
}

// ErrIllegalMove is returned by Play for a move not legal in the position.
var ErrIllegalMove = errors.New("illegal move")

// Play applies a legal move and advances the turn. If the opponent then has
// no legal move while the game is not over, the turn passes back to the
// mover.
func (p *Position) Play(m wire.Move) error {
	if !m.Valid() || p.Board.Get(m.Col, m.Row) != wire.Empty {
		return ErrIllegalMove
	}
	probe := *p
	if !probe.place(m) {
		return ErrIllegalMove
	}
	*p = probe
	if !p.hasMove(p.NextPlayer) && p.hasMove(Opponent(p.NextPlayer)) {
		p.NextPlayer = Opponent(p.NextPlayer)
	}
	return nil
}

// Discs counts the discs of one player.
func (p Position) Discs(t wire.Tile) int {
	n := 0
	for row := 0; row < wire.BoardSize; row++ {
		for col := 0; col < wire.BoardSize; col++ {
			if p.Board.Get(col, row) == t {
				n++
			}
		}
	}
	return n
}

// Winner returns the player with more discs, or wire.Empty for a draw. Only
// meaningful once the game is over.
func (p Position) Winner() wire.Tile {
	black, white := p.Discs(wire.Black), p.Discs(wire.White)
	switch {
	case black > white:
		return wire.Black
	case white > black:
		return wire.White
	default:
		return wire.Empty
	}
}

// ScoreFor maps the outcome to a score: win 1, draw 0.5, loss 0.
func (p Position) ScoreFor(t wire.Tile) float64 {
	switch p.Winner() {
	case t:
		return 1.0
	case wire.Empty:
		return 0.5
	default:
		return 0.0
	}
}

// InferNextPlayer guesses the player to move from disc parity. Black moves
// on even total counts since the game starts with four discs and each move
// adds exactly one. Passes break the parity, so this is only a heuristic for
// message shapes that omit the next-player line.
func InferNextPlayer(b wire.Board) wire.Tile {
	total := 0
	for row := 0; row < wire.BoardSize; row++ {
		for col := 0; col < wire.BoardSize; col++ {
			if b.Get(col, row) != wire.Empty {
				total++
			}
		}
	}
	if total%2 == 0 {
		return wire.Black
	}
	return wire.White
}
