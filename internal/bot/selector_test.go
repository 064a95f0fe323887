package bot

import (
	"context"
	"testing"
	"time"

	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

func requestFor(pos othello.Position, maxTime time.Duration) *wire.TurnRequest {
	return &wire.TurnRequest{
		Board:      pos.Board,
		NextPlayer: pos.NextPlayer,
		MaxTime:    maxTime,
		Moves:      pos.ValidMoves(),
	}
}

func TestNewSelector_UnknownStrategy(t *testing.T) {
	if _, err := NewSelector("telepathy"); err == nil {
		t.Errorf("expected an error for an unknown strategy")
	}
}

func TestSelectorsPickLegalMoves(t *testing.T) {
	for _, strategy := range []Strategy{StrategyRandom, StrategyGreedy, StrategyCorner} {
		t.Run(string(strategy), func(t *testing.T) {
			sel, err := NewSelector(strategy)
			if err != nil {
				t.Fatalf("NewSelector(%s) failed: %v", strategy, err)
			}

			// Every selector must stay inside the supplied list across a few
			// different positions.
			pos := othello.NewPosition()
			for turn := 0; turn < 10 && !pos.IsGameOver(); turn++ {
				req := requestFor(pos, time.Second)
				m, _, err := sel.SelectMove(context.Background(), req)
				if err != nil {
					t.Fatalf("SelectMove failed on turn %d: %v", turn, err)
				}
				if !wire.ContainsMove(req.Moves, m) {
					t.Fatalf("selector %s picked %s, not in %v", strategy, m, req.Moves)
				}
				if err := pos.Play(m); err != nil {
					t.Fatalf("selected move was illegal: %v", err)
				}
			}
		})
	}
}

func TestGreedyPrefersBiggerFlips(t *testing.T) {
	// Row 1: X O O . and row 2 gives a one-flip alternative. Placing d1
	// flips two discs, the alternative flips one.
	b := wire.NewBoard()
	b.Set(0, 0, wire.Black) // a1
	b.Set(1, 0, wire.White) // b1
	b.Set(2, 0, wire.White) // c1
	b.Set(0, 1, wire.Black) // a2
	b.Set(1, 1, wire.White) // b2
	pos := othello.Position{Board: b, NextPlayer: wire.Black}

	req := requestFor(pos, time.Second)
	m, _, err := greedyMove(context.Background(), req)
	if err != nil {
		t.Fatalf("greedyMove failed: %v", err)
	}
	if m.String() != "d1" {
		t.Errorf("expected greedy to pick d1 (two flips), got %s from %v", m, req.Moves)
	}
}

func TestCornerTakesTheCorner(t *testing.T) {
	// Black can capture the a1 corner via the diagonal.
	b := wire.NewBoard()
	b.Set(1, 1, wire.White) // b2
	b.Set(2, 2, wire.Black) // c3
	b.Set(3, 2, wire.White) // d3
	b.Set(4, 2, wire.Black) // e3
	pos := othello.Position{Board: b, NextPlayer: wire.Black}

	req := requestFor(pos, time.Second)
	if !wire.ContainsMove(req.Moves, wire.Move{Col: 0, Row: 0}) {
		t.Fatalf("test position should offer the a1 corner, got %v", req.Moves)
	}

	m, notes, err := cornerMove(context.Background(), req)
	if err != nil {
		t.Fatalf("cornerMove failed: %v", err)
	}
	if m.String() != "a1" {
		t.Errorf("expected corner move a1, got %s", m)
	}
	if notes != "corner" {
		t.Errorf("expected corner notes, got %q", notes)
	}
}

func TestSelectors_EmptyMoveList(t *testing.T) {
	req := &wire.TurnRequest{
		Board:      othello.NewPosition().Board,
		NextPlayer: wire.Black,
		MaxTime:    time.Second,
	}

	for _, strategy := range []Strategy{StrategyRandom, StrategyGreedy, StrategyCorner} {
		sel, err := NewSelector(strategy)
		if err != nil {
			t.Fatal(err)
		}
		m, _, err := sel.SelectMove(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: best-effort selection failed: %v", strategy, err)
		}
		if !m.Valid() {
			t.Errorf("%s: best-effort move %v is off the board", strategy, m)
		}
	}
}

func TestGreedyInfersMoverWithoutNextPlayerLine(t *testing.T) {
	// A v1.0.0-shaped request: NextPlayer is unset, parity says black.
	pos := othello.NewPosition()
	req := &wire.TurnRequest{
		Board:   pos.Board,
		MaxTime: time.Second,
		Moves:   pos.ValidMoves(),
	}

	m, _, err := greedyMove(context.Background(), req)
	if err != nil {
		t.Fatalf("greedyMove failed: %v", err)
	}
	if !wire.ContainsMove(req.Moves, m) {
		t.Errorf("inferred-mover selection picked %s outside %v", m, req.Moves)
	}
}
