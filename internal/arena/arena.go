// Package arena schedules games between AI entrants: head-to-head comparison
// runs over a mirrored opening set, and round-robin tournaments fitted with
// Elo ratings.
package arena

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"othello-arena/internal/elo"
	"othello-arena/internal/events"
	"othello-arena/internal/game"
	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

var tracer = otel.Tracer("arena")

// Entrant is a participant. NewPlayer is invoked once per scheduled game so
// that concurrent games never share a player (or its subprocess); the
// produced player must report the entrant's name.
type Entrant struct {
	Name      string
	NewPlayer func() (game.Player, error)
}

// Recorder persists finished games. A nil Recorder records nothing.
type Recorder interface {
	SaveResult(ctx context.Context, res *game.Result) error
}

// Options tune how the arena schedules games.
type Options struct {
	// OpeningDepth picks the mirrored opening set; depth 0 plays from the
	// standard start only.
	OpeningDepth int
	// Concurrency bounds how many games run at once; values below 1 mean 1.
	Concurrency int
	Publisher   events.Publisher
	Recorder    Recorder
}

// Arena schedules games under one set of options.
type Arena struct {
	opts Options
}

// New returns an arena with normalized options.
func New(opts Options) *Arena {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Arena{opts: opts}
}

// match is one scheduled game.
type match struct {
	black Entrant
	white Entrant
	pos   othello.Position
}

// CompareSummary aggregates a head-to-head run from A's point of view.
type CompareSummary struct {
	A       string
	B       string
	Games   int
	WinsA   int
	WinsB   int
	Draws   int
	PointsA float64
	PointsB float64
	Results []*game.Result
}

// Compare plays A against B over every opening at the configured depth, with
// colors mirrored so neither side keeps the first-move advantage.
func (a *Arena) Compare(ctx context.Context, ea, eb Entrant) (*CompareSummary, error) {
	ctx, span := tracer.Start(ctx, "arena.Compare", trace.WithAttributes(
		attribute.String("arena.a", ea.Name),
		attribute.String("arena.b", eb.Name),
		attribute.Int("arena.opening_depth", a.opts.OpeningDepth),
	))
	defer span.End()

	var matches []match
	for _, pos := range othello.OpeningsAtDepth(a.opts.OpeningDepth) {
		matches = append(matches,
			match{black: ea, white: eb, pos: pos},
			match{black: eb, white: ea, pos: pos},
		)
	}

	results, err := a.runMatches(ctx, matches)
	if err != nil {
		return nil, err
	}

	summary := &CompareSummary{A: ea.Name, B: eb.Name, Games: len(results), Results: results}
	for _, res := range results {
		var scoreA float64
		if res.Black == ea.Name {
			scoreA = res.ScoreFor(wire.Black)
		} else {
			scoreA = res.ScoreFor(wire.White)
		}
		summary.PointsA += scoreA
		summary.PointsB += 1 - scoreA
		switch scoreA {
		case 1:
			summary.WinsA++
		case 0:
			summary.WinsB++
		default:
			summary.Draws++
		}
	}
	return summary, nil
}

// TournamentReport is the outcome of a round-robin run.
type TournamentReport struct {
	Standings []elo.Standing
	Points    map[string]float64
	Outcomes  []elo.Outcome
	Results   []*game.Result
}

// Tournament plays every pair of entrants over the mirrored opening set and
// fits Elo ratings to the outcomes.
func (a *Arena) Tournament(ctx context.Context, entrants []Entrant) (*TournamentReport, error) {
	if len(entrants) < 2 {
		return nil, fmt.Errorf("a tournament needs at least two entrants, got %d", len(entrants))
	}
	ctx, span := tracer.Start(ctx, "arena.Tournament", trace.WithAttributes(
		attribute.Int("arena.entrants", len(entrants)),
		attribute.Int("arena.opening_depth", a.opts.OpeningDepth),
	))
	defer span.End()

	openings := othello.OpeningsAtDepth(a.opts.OpeningDepth)
	var matches []match
	for i := 0; i < len(entrants); i++ {
		for j := i + 1; j < len(entrants); j++ {
			for _, pos := range openings {
				matches = append(matches,
					match{black: entrants[i], white: entrants[j], pos: pos},
					match{black: entrants[j], white: entrants[i], pos: pos},
				)
			}
		}
	}

	results, err := a.runMatches(ctx, matches)
	if err != nil {
		return nil, err
	}

	report := &TournamentReport{
		Points:  make(map[string]float64, len(entrants)),
		Results: results,
	}
	for _, e := range entrants {
		report.Points[e.Name] = 0
	}
	for _, res := range results {
		scoreBlack := res.ScoreFor(wire.Black)
		report.Points[res.Black] += scoreBlack
		report.Points[res.White] += 1 - scoreBlack
		report.Outcomes = append(report.Outcomes, elo.Outcome{
			PlayerA: res.Black,
			PlayerB: res.White,
			ScoreA:  scoreBlack,
		})
	}
	report.Standings = elo.Rank(elo.NewEstimator().Estimate(report.Outcomes))
	return report, nil
}

// runMatches plays the scheduled games with at most Concurrency running at
// once. Results keep schedule order. The first hard failure (player setup or
// cancellation) wins; finished games are never discarded by a later failure.
func (a *Arena) runMatches(ctx context.Context, matches []match) ([]*game.Result, error) {
	sem := make(chan struct{}, a.opts.Concurrency)
	results := make([]*game.Result, len(matches))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for i, m := range matches {
		wg.Add(1)
		go func(i int, m match) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				fail(ctx.Err())
				return
			}

			res, err := a.playMatch(ctx, m)
			if err != nil {
				fail(err)
				return
			}
			results[i] = res
		}(i, m)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// playMatch builds fresh players, runs one game and records the result.
func (a *Arena) playMatch(ctx context.Context, m match) (*game.Result, error) {
	black, err := m.black.NewPlayer()
	if err != nil {
		return nil, fmt.Errorf("setting up %s: %w", m.black.Name, err)
	}
	defer black.Close()

	white, err := m.white.NewPlayer()
	if err != nil {
		return nil, fmt.Errorf("setting up %s: %w", m.white.Name, err)
	}
	defer white.Close()

	g := game.New(black, white,
		game.WithStartPosition(m.pos),
		game.WithPublisher(a.opts.Publisher),
	)
	res, err := g.Run(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "game finished",
		"game_id", res.GameID,
		"black", res.Black,
		"white", res.White,
		"score_black", res.ScoreBlack,
		"forfeit", res.Forfeit,
	)
	if a.opts.Recorder != nil {
		if err := a.opts.Recorder.SaveResult(ctx, res); err != nil {
			slog.WarnContext(ctx, "recording result failed", "game_id", res.GameID, "error", err)
		}
	}
	return res, nil
}
