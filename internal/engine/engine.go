// Package engine drives the AI side of the turn exchange protocol: it binds
// a negotiated session to a byte stream, reads turn requests, runs the
// move-selection collaborator under the per-turn deadline and emits the
// response.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"othello-arena/pkg/wire"
)

var (
	tracer = otel.Tracer("engine")
	meter  = otel.Meter("engine")
)

// Selector is the external move-selection collaborator. It receives the
// validated turn request and returns the chosen move plus optional free-text
// notes. The context carries the per-turn deadline; implementations should
// return promptly once it is cancelled.
type Selector interface {
	SelectMove(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error)
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error)

func (f SelectorFunc) SelectMove(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	return f(ctx, req)
}

// Engine runs the protocol for the life of a game exchange: one handshake,
// then one turn session per request until the channel closes.
type Engine struct {
	session  *wire.Session
	codec    wire.Codec
	r        *bufio.Reader
	w        io.Writer
	selector Selector
}

// New binds an engine to a byte stream. For versioned sessions the handshake
// line is written immediately; VersionLegacy skips the handshake and starts
// pseudo-negotiated.
func New(r io.Reader, w io.Writer, version wire.Version, selector Selector) (*Engine, error) {
	e := &Engine{
		r:        bufio.NewReader(r),
		w:        w,
		selector: selector,
	}
	if version == wire.VersionLegacy {
		e.session = wire.LegacySession()
	} else {
		session, err := wire.NewNegotiator().Offer(w, version)
		if err != nil {
			return nil, err
		}
		e.session = session
	}
	e.codec = wire.NewCodec(e.session.Version())
	return e, nil
}

// Session exposes the engine's session state.
func (e *Engine) Session() *wire.Session {
	return e.session
}

// Run executes turn sessions until the peer closes the channel. A clean
// close is not an error; any protocol violation or timeout is.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := e.RunTurn(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// RunTurn executes exactly one request/response cycle. Parsing failures are
// fatal to the session and returned as-is; a move outside the GUI-supplied
// list is reported but the response is still emitted, per the engine's
// documented policy.
func (e *Engine) RunTurn(ctx context.Context) error {
	req, err := e.codec.ReadTurnRequest(e.r)
	if err != nil {
		return err
	}

	turn := e.session.NextTurn()
	ctx, span := tracer.Start(ctx, "engine.RunTurn", trace.WithAttributes(
		attribute.String("protocol.version", string(e.session.Version())),
		attribute.Int64("protocol.turn", int64(turn)),
		attribute.Int("request.moves", len(req.Moves)),
	))
	defer span.End()
	turnCounter.Add(ctx, 1)

	resp, err := e.selectWithDeadline(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "move selection failed")
		if errors.Is(err, wire.ErrTimeout) {
			timeoutCounter.Add(ctx, 1)
		}
		return err
	}

	if len(req.Moves) > 0 && !wire.ContainsMove(req.Moves, resp.Move) {
		// Reportable but non-fatal here; the GUI peer owns the rejection
		// policy.
		offListCounter.Add(ctx, 1)
		slog.WarnContext(ctx, "selected move is not in the supplied move list",
			"move", resp.Move.String(), "turn", turn)
		span.AddEvent("move not in list", trace.WithAttributes(
			attribute.String("move", resp.Move.String()),
		))
	}

	if err := e.codec.WriteTurnResponse(e.w, resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "writing response failed")
		return fmt.Errorf("writing turn response: %w", err)
	}
	return nil
}

// selectWithDeadline runs the selector as an independently abandonable unit
// of work. When the request's time budget lapses, the pending result is
// discarded and the turn fails with wire.ErrTimeout.
func (e *Engine) selectWithDeadline(ctx context.Context, req *wire.TurnRequest) (*wire.TurnResponse, error) {
	if req.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.MaxTime)
		defer cancel()
	}

	type result struct {
		move  wire.Move
		notes string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		move, notes, err := e.selector.SelectMove(ctx, req)
		done <- result{move: move, notes: notes, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", wire.ErrTimeout, res.err)
			}
			return nil, fmt.Errorf("selecting move: %w", res.err)
		}
		resp := &wire.TurnResponse{Move: res.move}
		if e.session.Version() == wire.VersionLegacy {
			resp.Notes = res.notes
		}
		return resp, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", wire.ErrTimeout, req.MaxTime)
		}
		return nil, ctx.Err()
	}
}

var (
	turnCounter, _    = meter.Int64Counter("protocol.turns")
	timeoutCounter, _ = meter.Int64Counter("protocol.timeouts")
	offListCounter, _ = meter.Int64Counter("protocol.moves_off_list")
)
