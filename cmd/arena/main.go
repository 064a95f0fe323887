// arena runs AI-versus-AI Othello: head-to-head comparisons, round-robin
// tournaments with Elo fitting, and a server exposing results and a live
// spectator feed.
//
// Usage:
//
//	arena [-config file] compare ENTRANT ENTRANT
//	arena [-config file] tournament ENTRANT...
//	arena [-config file] serve
//
// An ENTRANT is either a built-in strategy (random, greedy, corner),
// optionally renamed as NAME=STRATEGY, or an external AI given as
// NAME=VERSION:COMMAND [ARGS], e.g. champ=v2.0.0-rc1:./mybot --deep.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"othello-arena/internal/aiproc"
	"othello-arena/internal/api/controller"
	"othello-arena/internal/arena"
	"othello-arena/internal/bot"
	"othello-arena/internal/config"
	"othello-arena/internal/db"
	"othello-arena/internal/events"
	"othello-arena/internal/game"
	"othello-arena/internal/hub"
	"othello-arena/internal/logger"
	"othello-arena/internal/repository"
	"othello-arena/internal/server"
	"othello-arena/internal/telemetry"
	"othello-arena/pkg/wire"
)

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: arena [-config file] <compare|tournament|serve> [entrant...]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()

	shutdown, err := telemetry.InitOtel(ctx, cfg.OTLPEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	logger.Init()

	if err := run(ctx, cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		slog.Error("arena failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, mode string, args []string) error {
	pool, err := db.Connect(cfg.DBPath)
	if err != nil {
		return err
	}
	defer pool.Close()

	results := repository.NewResultRepository(pool)
	ratings := repository.NewRatingRepository(pool)

	var (
		publisher events.Publisher
		standings repository.StandingsRepository
		feed      <-chan events.Event
	)
	if cfg.RedisAddr != "" || mode == "serve" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		publisher = repository.NewRedisPublisher(rdb)
		standings = repository.NewStandingsRepository(rdb)
		if mode == "serve" {
			feed, err = repository.Subscribe(ctx, rdb)
			if err != nil {
				return err
			}
		}
	}

	switch mode {
	case "compare":
		if len(args) != 2 {
			return fmt.Errorf("compare takes exactly two entrants")
		}
		return runCompare(ctx, cfg, args, results, standings, publisher)
	case "tournament":
		if len(args) < 2 {
			return fmt.Errorf("tournament takes at least two entrants")
		}
		return runTournament(ctx, cfg, args, results, ratings, standings, publisher)
	case "serve":
		return runServe(ctx, cfg, results, ratings, standings, feed)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func newArena(cfg *config.Config, results repository.ResultRepository, standings repository.StandingsRepository, publisher events.Publisher) *arena.Arena {
	return arena.New(arena.Options{
		OpeningDepth: cfg.OpeningDepth,
		Concurrency:  cfg.Concurrency,
		Publisher:    publisher,
		Recorder: &liveRecorder{
			results:   results,
			standings: standings,
		},
	})
}

func runCompare(ctx context.Context, cfg *config.Config, args []string, results repository.ResultRepository, standings repository.StandingsRepository, publisher events.Publisher) error {
	ea, err := parseEntrant(args[0], cfg.MoveTimeout)
	if err != nil {
		return err
	}
	eb, err := parseEntrant(args[1], cfg.MoveTimeout)
	if err != nil {
		return err
	}

	summary, err := newArena(cfg, results, standings, publisher).Compare(ctx, ea, eb)
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s over %d games:\n", summary.A, summary.B, summary.Games)
	fmt.Printf("  %-12s %d wins, %.1f points\n", summary.A, summary.WinsA, summary.PointsA)
	fmt.Printf("  %-12s %d wins, %.1f points\n", summary.B, summary.WinsB, summary.PointsB)
	fmt.Printf("  draws: %d\n", summary.Draws)
	return nil
}

func runTournament(ctx context.Context, cfg *config.Config, args []string, results repository.ResultRepository, ratings repository.RatingRepository, standings repository.StandingsRepository, publisher events.Publisher) error {
	entrants := make([]arena.Entrant, 0, len(args))
	for _, arg := range args {
		e, err := parseEntrant(arg, cfg.MoveTimeout)
		if err != nil {
			return err
		}
		entrants = append(entrants, e)
	}

	report, err := newArena(cfg, results, standings, publisher).Tournament(ctx, entrants)
	if err != nil {
		return err
	}

	gamesPlayed := make(map[string]int)
	for _, res := range report.Results {
		gamesPlayed[res.Black]++
		gamesPlayed[res.White]++
	}
	if err := ratings.ReplaceAll(ctx, report.Standings, gamesPlayed); err != nil {
		return err
	}

	fmt.Printf("%-4s %-16s %8s %8s\n", "#", "entrant", "rating", "points")
	for i, s := range report.Standings {
		fmt.Printf("%-4d %-16s %8.0f %8.1f\n", i+1, s.Player, s.Rating, report.Points[s.Player])
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, results repository.ResultRepository, ratings repository.RatingRepository, standings repository.StandingsRepository, feed <-chan events.Event) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := hub.NewHub(feed)
	go h.Run(ctx)

	ac := controller.NewArenaController(results, ratings, standings)
	srv := server.NewServer(ac, h)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return httpServer.Shutdown(shutdownCtx)
}

// liveRecorder archives each finished game and keeps the live standings
// current. A nil standings store disables the live half.
type liveRecorder struct {
	results   repository.ResultRepository
	standings repository.StandingsRepository
}

func (r *liveRecorder) SaveResult(ctx context.Context, res *game.Result) error {
	if err := r.results.SaveResult(ctx, res); err != nil {
		return err
	}
	if r.standings == nil {
		return nil
	}
	if err := r.standings.AddPoints(ctx, res.Black, res.ScoreFor(wire.Black)); err != nil {
		return err
	}
	return r.standings.AddPoints(ctx, res.White, res.ScoreFor(wire.White))
}

// parseEntrant understands built-in strategies and external AI commands; see
// the package comment for the syntax.
func parseEntrant(s string, moveTimeout time.Duration) (arena.Entrant, error) {
	name, spec, renamed := strings.Cut(s, "=")
	if !renamed {
		name, spec = s, s
	}

	switch bot.Strategy(spec) {
	case bot.StrategyRandom, bot.StrategyGreedy, bot.StrategyCorner:
		strategy := bot.Strategy(spec)
		return arena.Entrant{
			Name: name,
			NewPlayer: func() (game.Player, error) {
				return bot.NewPlayer(name, strategy, moveTimeout)
			},
		}, nil
	}

	versionStr, cmdline, ok := strings.Cut(spec, ":")
	if !ok {
		return arena.Entrant{}, fmt.Errorf("entrant %q: want a strategy or VERSION:COMMAND", s)
	}
	version := wire.Version(versionStr)
	switch version {
	case wire.VersionLegacy, wire.V1, wire.V2RC1:
	default:
		return arena.Entrant{}, fmt.Errorf("entrant %q: unknown version %q", s, versionStr)
	}

	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return arena.Entrant{}, fmt.Errorf("entrant %q: empty command", s)
	}
	return arena.Entrant{
		Name: name,
		NewPlayer: func() (game.Player, error) {
			return aiproc.NewPlayer(name, version, moveTimeout, fields[0], fields[1:]...), nil
		},
	}, nil
}
