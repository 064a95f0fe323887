// Package game runs a complete Othello game between two players and applies
// the arena's forfeit policy: a player that errors out, times out or answers
// with a move outside the legal list loses on the spot.
package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"othello-arena/internal/events"
	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

var tracer = otel.Tracer("game")

// Player is one side of a game. RequestMove receives the current position and
// the legal move list and must answer within the context's deadline;
// implementations own their per-turn time budget. Close releases whatever the
// player holds (a subprocess, a connection).
type Player interface {
	Name() string
	RequestMove(ctx context.Context, pos othello.Position, moves []wire.Move) (wire.Move, string, error)
	Close() error
}

// Ply is one recorded move.
type Ply struct {
	Player wire.Tile
	Move   wire.Move
	Notes  string
}

// Result is the outcome of a finished game. ScoreBlack is 1, 0.5 or 0 from
// black's point of view; white's score is its complement.
type Result struct {
	GameID     string
	Black      string
	White      string
	Winner     wire.Tile // wire.Empty on a draw
	ScoreBlack float64
	Forfeit    bool
	Reason     string
	Plies      []Ply
}

// ScoreFor returns the result's score for one side.
func (r *Result) ScoreFor(t wire.Tile) float64 {
	if t == wire.Black {
		return r.ScoreBlack
	}
	return 1 - r.ScoreBlack
}

// Game holds the state of one running game.
type Game struct {
	id        string
	pos       othello.Position
	black     Player
	white     Player
	publisher events.Publisher
	history   []Ply
}

// Option customizes a game.
type Option func(*Game)

// WithPublisher emits lifecycle events for the game.
func WithPublisher(p events.Publisher) Option {
	return func(g *Game) { g.publisher = p }
}

// WithStartPosition starts the game from an arbitrary position instead of the
// standard opening.
func WithStartPosition(pos othello.Position) Option {
	return func(g *Game) { g.pos = pos }
}

// New sets up a game between the black and white players.
func New(black, white Player, opts ...Option) *Game {
	g := &Game{
		id:    uuid.New().String(),
		pos:   othello.NewPosition(),
		black: black,
		white: white,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the game's identifier.
func (g *Game) ID() string { return g.id }

// History returns the moves played so far.
func (g *Game) History() []Ply { return g.history }

// Run plays the game to completion and returns the result. A forfeit is a
// completed game, not an error; Run only fails when the context is cancelled.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "game.Run", trace.WithAttributes(
		attribute.String("game.id", g.id),
		attribute.String("game.black", g.black.Name()),
		attribute.String("game.white", g.white.Name()),
	))
	defer span.End()

	g.publish(ctx, events.TypeGameStarted, events.GameStartedPayload{
		GameID: g.id,
		Black:  g.black.Name(),
		White:  g.white.Name(),
	})

	for !g.pos.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mover := g.pos.NextPlayer
		player := g.playerFor(mover)
		moves := g.pos.ValidMoves()

		m, notes, err := player.RequestMove(ctx, g.pos, moves)
		if err != nil {
			return g.forfeit(ctx, mover, fmt.Sprintf("%s failed to answer: %v", player.Name(), err)), nil
		}
		if !wire.ContainsMove(moves, m) {
			return g.forfeit(ctx, mover, fmt.Sprintf("%s answered %s: %v", player.Name(), m, wire.ErrMoveNotInList)), nil
		}
		if err := g.pos.Play(m); err != nil {
			return g.forfeit(ctx, mover, fmt.Sprintf("%s answered illegal move %s: %v", player.Name(), m, err)), nil
		}

		g.history = append(g.history, Ply{Player: mover, Move: m, Notes: notes})
		g.publish(ctx, events.TypeMovePlayed, events.MovePlayedPayload{
			GameID: g.id,
			Player: mover.String(),
			Move:   m.String(),
			Notes:  notes,
		})
	}

	res := &Result{
		GameID:     g.id,
		Black:      g.black.Name(),
		White:      g.white.Name(),
		Winner:     g.pos.Winner(),
		ScoreBlack: g.pos.ScoreFor(wire.Black),
		Plies:      g.history,
	}
	g.finish(ctx, res)
	return res, nil
}

func (g *Game) playerFor(t wire.Tile) Player {
	if t == wire.Black {
		return g.black
	}
	return g.white
}

// forfeit ends the game against the offending side.
func (g *Game) forfeit(ctx context.Context, offender wire.Tile, reason string) *Result {
	winner := wire.Black
	score := 1.0
	if offender == wire.Black {
		winner, score = wire.White, 0
	}
	res := &Result{
		GameID:     g.id,
		Black:      g.black.Name(),
		White:      g.white.Name(),
		Winner:     winner,
		ScoreBlack: score,
		Forfeit:    true,
		Reason:     reason,
		Plies:      g.history,
	}
	slog.WarnContext(ctx, "game forfeited", "game_id", g.id, "reason", reason)
	g.finish(ctx, res)
	return res
}

func (g *Game) finish(ctx context.Context, res *Result) {
	winner := ""
	if res.Winner != wire.Empty {
		winner = res.Winner.String()
	}
	g.publish(ctx, events.TypeGameFinished, events.GameFinishedPayload{
		GameID:     g.id,
		Winner:     winner,
		ScoreBlack: res.ScoreBlack,
		Forfeit:    res.Forfeit,
		Reason:     res.Reason,
	})
}

func (g *Game) publish(ctx context.Context, eventType string, payload any) {
	if g.publisher == nil {
		return
	}
	event, err := events.New(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "marshaling event failed", "event", eventType, "error", err)
		return
	}
	if err := g.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "publishing event failed", "event", eventType, "error", err)
	}
}
