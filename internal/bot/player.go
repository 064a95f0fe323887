package bot

import (
	"context"
	"time"

	"othello-arena/internal/engine"
	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

// Player runs a built-in selector in process, so reference strategies can
// enter the arena without a subprocess round trip.
type Player struct {
	name     string
	selector engine.Selector
	maxTime  time.Duration
}

// NewPlayer builds an in-process player for a strategy.
func NewPlayer(name string, strategy Strategy, maxTime time.Duration) (*Player, error) {
	sel, err := NewSelector(strategy)
	if err != nil {
		return nil, err
	}
	return &Player{name: name, selector: sel, maxTime: maxTime}, nil
}

func (p *Player) Name() string { return p.name }

// RequestMove runs the selector under the player's own time budget.
func (p *Player) RequestMove(ctx context.Context, pos othello.Position, moves []wire.Move) (wire.Move, string, error) {
	if p.maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.maxTime)
		defer cancel()
	}
	req := &wire.TurnRequest{
		Board:      pos.Board,
		NextPlayer: pos.NextPlayer,
		MaxTime:    p.maxTime,
		Moves:      moves,
	}
	return p.selector.SelectMove(ctx, req)
}

func (p *Player) Close() error { return nil }
