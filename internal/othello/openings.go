package othello

import "othello-arena/pkg/wire"

// OpeningsAtDepth enumerates the positions reachable after depth plies from
// the standard start. For depth >= 1 the first move is fixed to d3, which is
// equivalent to any other first move up to symmetry and halves duplicated
// mirror openings.
func OpeningsAtDepth(depth int) []Position {
	start := NewPosition()
	if depth == 0 {
		return []Position{start}
	}
	if err := start.Play(wire.Move{Col: 3, Row: 2}); err != nil {
		panic("d3 must be legal in the starting position: " + err.Error())
	}
	return expand(start, depth-1)
}

func expand(p Position, depth int) []Position {
	if depth == 0 {
		return []Position{p}
	}
	moves := p.ValidMoves()
	if len(moves) == 0 {
		return []Position{p}
	}
	var out []Position
	for _, m := range moves {
		next := p
		if err := next.Play(m); err != nil {
			continue
		}
		out = append(out, expand(next, depth-1)...)
	}
	return out
}
