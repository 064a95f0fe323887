package othello

import (
	"testing"

	"othello-arena/pkg/wire"
)

func TestOpeningsAtDepthZero(t *testing.T) {
	openings := OpeningsAtDepth(0)
	if len(openings) != 1 {
		t.Fatalf("expected just the starting position, got %d openings", len(openings))
	}
	if openings[0] != NewPosition() {
		t.Errorf("depth 0 opening should be the starting position")
	}
}

func TestOpeningsAtDepthOne(t *testing.T) {
	openings := OpeningsAtDepth(1)
	if len(openings) != 1 {
		t.Fatalf("expected a single opening after the fixed d3, got %d", len(openings))
	}
	if got := openings[0].NextPlayer; got != wire.White {
		t.Errorf("expected white to move after d3, got %q", got)
	}
	if got := openings[0].Board.Get(3, 2); got != wire.Black {
		t.Errorf("expected X on d3, got %q", got)
	}
}

func TestOpeningsAtDepthTwo(t *testing.T) {
	// White has exactly c3, e3 and c5 as replies to d3.
	openings := OpeningsAtDepth(2)
	if len(openings) != 3 {
		t.Fatalf("expected 3 openings at depth 2, got %d", len(openings))
	}
	for _, o := range openings {
		if o.NextPlayer != wire.Black {
			t.Errorf("expected black to move in a depth-2 opening, got %q", o.NextPlayer)
		}
	}
}
