// othello-bot is the reference AI: it speaks the turn exchange protocol on
// stdin/stdout with one of the built-in strategies.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"othello-arena/internal/bot"
	"othello-arena/internal/engine"
	"othello-arena/pkg/wire"
)

func main() {
	strategy := flag.String("strategy", "greedy", "move selection strategy: random, greedy or corner")
	version := flag.String("version", "legacy", "protocol version to speak: legacy, v1.0.0 or v2.0.0-rc1")
	flag.Parse()

	// Stdout belongs to the protocol; all logging goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	sel, err := bot.NewSelector(bot.Strategy(*strategy))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	e, err := engine.New(os.Stdin, os.Stdout, wire.Version(*version), sel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := e.Run(context.Background()); err != nil {
		slog.Error("session failed", "error", err)
		os.Exit(1)
	}
}
