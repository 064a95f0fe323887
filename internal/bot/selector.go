// Package bot provides the built-in move selectors used by the reference AI
// binary and by in-process arena entrants.
package bot

import (
	"context"
	"fmt"
	"math/rand/v2"

	"othello-arena/internal/engine"
	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

// Strategy names a built-in selector.
type Strategy string

const (
	StrategyRandom Strategy = "random"
	StrategyGreedy Strategy = "greedy"
	StrategyCorner Strategy = "corner"
)

// NewSelector returns the selector for a strategy name.
func NewSelector(strategy Strategy) (engine.Selector, error) {
	switch strategy {
	case StrategyRandom:
		return engine.SelectorFunc(randomMove), nil
	case StrategyGreedy:
		return engine.SelectorFunc(greedyMove), nil
	case StrategyCorner:
		return engine.SelectorFunc(cornerMove), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// randomMove picks uniformly from the supplied move list.
func randomMove(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	if len(req.Moves) == 0 {
		return fallbackMove(req.Board), "no legal moves supplied", nil
	}
	m := req.Moves[rand.IntN(len(req.Moves))]
	return m, fmt.Sprintf("random pick of %d", len(req.Moves)), nil
}

// greedyMove picks the move that flips the most discs, first in list order
// on ties.
func greedyMove(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	if len(req.Moves) == 0 {
		return fallbackMove(req.Board), "no legal moves supplied", nil
	}
	mover := moverFor(req)

	best := req.Moves[0]
	bestGain := -1
	for _, m := range req.Moves {
		pos := othello.Position{Board: req.Board, NextPlayer: mover}
		before := pos.Discs(mover)
		if err := pos.Play(m); err != nil {
			continue
		}
		if gain := pos.Discs(mover) - before; gain > bestGain {
			best, bestGain = m, gain
		}
	}
	return best, fmt.Sprintf("greedy: +%d discs", bestGain), nil
}

// cornerMove takes a corner whenever one is on offer, otherwise plays
// greedily.
func cornerMove(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	corners := []wire.Move{
		{Col: 0, Row: 0},
		{Col: 7, Row: 0},
		{Col: 0, Row: 7},
		{Col: 7, Row: 7},
	}
	for _, corner := range corners {
		if wire.ContainsMove(req.Moves, corner) {
			return corner, "corner", nil
		}
	}
	return greedyMove(ctx, req)
}

// moverFor resolves the player to move. v1.0.0 requests carry no next-player
// line, so the mover is inferred from disc parity.
func moverFor(req *wire.TurnRequest) wire.Tile {
	if req.NextPlayer == wire.Black || req.NextPlayer == wire.White {
		return req.NextPlayer
	}
	return othello.InferNextPlayer(req.Board)
}

// fallbackMove is the best-effort answer to an empty move list: the first
// empty square in board order, a1 if the board is somehow full.
func fallbackMove(b wire.Board) wire.Move {
	for row := 0; row < wire.BoardSize; row++ {
		for col := 0; col < wire.BoardSize; col++ {
			if b.Get(col, row) == wire.Empty {
				return wire.Move{Col: col, Row: row}
			}
		}
	}
	return wire.Move{Col: 0, Row: 0}
}
