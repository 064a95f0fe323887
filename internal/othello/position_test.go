package othello

import (
	"errors"
	"testing"

	"othello-arena/pkg/wire"
)

func movesAsStrings(moves []wire.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestStartingPosition(t *testing.T) {
	p := NewPosition()

	if p.NextPlayer != wire.Black {
		t.Errorf("expected black to move first, got %q", p.NextPlayer)
	}
	if p.Discs(wire.Black) != 2 || p.Discs(wire.White) != 2 {
		t.Errorf("expected 2 discs each, got X=%d O=%d", p.Discs(wire.Black), p.Discs(wire.White))
	}
	if got := p.Board.Get(3, 3); got != wire.White {
		t.Errorf("expected O at d4, got %q", got)
	}
	if got := p.Board.Get(3, 4); got != wire.Black {
		t.Errorf("expected X at d5, got %q", got)
	}
}

func TestStartingValidMoves(t *testing.T) {
	p := NewPosition()

	got := movesAsStrings(p.ValidMoves())
	want := []string{"d3", "c4", "f5", "e6"}
	if len(got) != len(want) {
		t.Fatalf("expected moves %v, got %v", want, got)
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s to be a legal opening move, got %v", w, got)
		}
	}
}

func TestPlayFlipsAndHandsTurnOver(t *testing.T) {
	p := NewPosition()

	if err := p.Play(wire.Move{Col: 3, Row: 2}); err != nil { // d3
		t.Fatalf("d3 should be legal: %v", err)
	}

	if p.NextPlayer != wire.White {
		t.Errorf("expected white to move after d3, got %q", p.NextPlayer)
	}
	if got := p.Board.Get(3, 3); got != wire.Black {
		t.Errorf("expected d4 flipped to X, got %q", got)
	}
	if p.Discs(wire.Black) != 4 || p.Discs(wire.White) != 1 {
		t.Errorf("expected X=4 O=1 after d3, got X=%d O=%d", p.Discs(wire.Black), p.Discs(wire.White))
	}

	// The replies available to white after d3.
	got := movesAsStrings(p.ValidMoves())
	want := map[string]bool{"c3": true, "e3": true, "c5": true}
	if len(got) != len(want) {
		t.Fatalf("expected white replies c3 e3 c5, got %v", got)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected white reply %s", g)
		}
	}
}

func TestPlayIllegalMove(t *testing.T) {
	p := NewPosition()

	tests := []struct {
		name string
		move wire.Move
	}{
		{"occupied square", wire.Move{Col: 3, Row: 3}},
		{"no flips", wire.Move{Col: 0, Row: 0}},
		{"off board", wire.Move{Col: 8, Row: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := p
			if err := q.Play(tt.move); !errors.Is(err, ErrIllegalMove) {
				t.Errorf("expected ErrIllegalMove, got %v", err)
			}
			if q != p {
				t.Errorf("failed Play must not mutate the position")
			}
		})
	}
}

func TestPlayAutoPass(t *testing.T) {
	// Row 1 holds XO....OX with black to move. After black plays c1 white has
	// no legal reply anywhere while black still has f1, so the turn passes
	// straight back to black.
	b := wire.NewBoard()
	b.Set(0, 0, wire.Black)
	b.Set(1, 0, wire.White)
	b.Set(6, 0, wire.White)
	b.Set(7, 0, wire.Black)
	p := Position{Board: b, NextPlayer: wire.Black}

	if err := p.Play(wire.Move{Col: 2, Row: 0}); err != nil {
		t.Fatalf("c1 should be legal: %v", err)
	}

	if p.IsGameOver() {
		t.Fatalf("game should not be over while black can still play f1")
	}
	if p.NextPlayer != wire.Black {
		t.Errorf("expected pass back to black, got %q to move", p.NextPlayer)
	}
}

func TestGameOverAndScoring(t *testing.T) {
	// Black captures white's last disc: board becomes all-black on row 1.
	b := wire.NewBoard()
	b.Set(0, 0, wire.Black)
	b.Set(1, 0, wire.White)
	p := Position{Board: b, NextPlayer: wire.Black}

	if err := p.Play(wire.Move{Col: 2, Row: 0}); err != nil {
		t.Fatalf("c1 should be legal: %v", err)
	}

	if !p.IsGameOver() {
		t.Fatalf("expected game over once white has no discs")
	}
	if got := p.Winner(); got != wire.Black {
		t.Errorf("expected black to win, got %q", got)
	}
	if got := p.ScoreFor(wire.Black); got != 1.0 {
		t.Errorf("expected winner score 1.0, got %v", got)
	}
	if got := p.ScoreFor(wire.White); got != 0.0 {
		t.Errorf("expected loser score 0.0, got %v", got)
	}
}

func TestDrawScoring(t *testing.T) {
	b := wire.NewBoard()
	for row := 0; row < wire.BoardSize; row++ {
		for col := 0; col < wire.BoardSize; col++ {
			if row < 4 {
				b.Set(col, row, wire.Black)
			} else {
				b.Set(col, row, wire.White)
			}
		}
	}
	p := Position{Board: b, NextPlayer: wire.Black}

	if !p.IsGameOver() {
		t.Fatalf("full board must be game over")
	}
	if got := p.Winner(); got != wire.Empty {
		t.Errorf("expected draw, got winner %q", got)
	}
	if got := p.ScoreFor(wire.Black); got != 0.5 {
		t.Errorf("expected 0.5 for a draw, got %v", got)
	}
}

func TestInferNextPlayer(t *testing.T) {
	p := NewPosition()
	if got := InferNextPlayer(p.Board); got != wire.Black {
		t.Errorf("expected black at the start, got %q", got)
	}
	if err := p.Play(wire.Move{Col: 3, Row: 2}); err != nil {
		t.Fatal(err)
	}
	if got := InferNextPlayer(p.Board); got != wire.White {
		t.Errorf("expected white after one move, got %q", got)
	}
}

func TestSelfPlayToCompletion(t *testing.T) {
	// First-legal-move self-play must always reach a finished game within the
	// 60 theoretical maximum plies plus passes.
	p := NewPosition()
	for plies := 0; plies < 128 && !p.IsGameOver(); plies++ {
		moves := p.ValidMoves()
		if len(moves) == 0 {
			t.Fatalf("no legal moves for %q but game not over", p.NextPlayer)
		}
		if err := p.Play(moves[0]); err != nil {
			t.Fatalf("legal move rejected: %v", err)
		}
	}
	if !p.IsGameOver() {
		t.Fatalf("self-play did not finish")
	}
	if p.Discs(wire.Black)+p.Discs(wire.White) > 64 {
		t.Fatalf("more discs than squares")
	}
}
