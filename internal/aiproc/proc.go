package aiproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"othello-arena/internal/othello"
	"othello-arena/pkg/wire"
)

// handshakeTimeout bounds how long a freshly started AI gets to write its
// version line.
const handshakeTimeout = 5 * time.Second

// Player hosts an AI executable as a subprocess. Versioned AIs run as one
// long-lived process for the whole game; legacy AIs get a fresh process per
// turn, fed the request on stdin and read to completion.
type Player struct {
	name    string
	version wire.Version
	maxTime time.Duration
	command string
	args    []string

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	peer  *Peer
}

// NewPlayer configures a subprocess-hosted AI. version selects the protocol
// shape the AI speaks; maxTime is the per-turn budget handed to the AI and
// enforced on it.
func NewPlayer(name string, version wire.Version, maxTime time.Duration, command string, args ...string) *Player {
	return &Player{
		name:    name,
		version: version,
		maxTime: maxTime,
		command: command,
		args:    args,
	}
}

func (p *Player) Name() string { return p.name }

// RequestMove obtains the AI's move for the given position. A turn that blows
// the time budget fails with wire.ErrTimeout and the AI's process is killed.
func (p *Player) RequestMove(ctx context.Context, pos othello.Position, moves []wire.Move) (wire.Move, string, error) {
	req := &wire.TurnRequest{
		Board:      pos.Board,
		NextPlayer: pos.NextPlayer,
		MaxTime:    p.maxTime,
		Moves:      moves,
	}
	if p.version == wire.VersionLegacy {
		return p.oneShotTurn(ctx, req)
	}
	return p.sessionTurn(ctx, req)
}

// oneShotTurn spawns a process for a single legacy turn: request on stdin,
// complete output parsed as the response once the process exits.
func (p *Player) oneShotTurn(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	if p.maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.maxTime)
		defer cancel()
	}

	codec := wire.NewCodec(wire.VersionLegacy)
	var in bytes.Buffer
	if err := codec.WriteTurnRequest(&in, req); err != nil {
		return wire.Move{}, "", err
	}

	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = &in
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return wire.Move{}, "", fmt.Errorf("%w after %s", wire.ErrTimeout, p.maxTime)
	}
	if err != nil {
		return wire.Move{}, "", fmt.Errorf("running %s: %w", p.command, err)
	}

	resp, err := codec.ParseTurnResponse(string(out))
	if err != nil {
		return wire.Move{}, "", err
	}
	return resp.Move, resp.Notes, nil
}

// sessionTurn exchanges one turn over the long-lived process, starting it on
// first use. Any failure poisons the session, so the process is torn down.
func (p *Player) sessionTurn(ctx context.Context, req *wire.TurnRequest) (wire.Move, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		if err := p.start(); err != nil {
			return wire.Move{}, "", err
		}
	}

	resp, err := p.peer.Exchange(ctx, req)
	if err != nil {
		p.terminate(ctx)
		return wire.Move{}, "", err
	}
	return resp.Move, resp.Notes, nil
}

// start launches the process and completes the handshake. The accepted set is
// exactly the configured version: an AI offering anything else is rejected
// with wire.ErrVersionMismatch.
func (p *Player) start() error {
	cmd := exec.Command(p.command, p.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("opening stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.command, err)
	}

	type accepted struct {
		peer *Peer
		err  error
	}
	done := make(chan accepted, 1)
	go func() {
		peer, err := AcceptPeer(stdout, stdin, p.version)
		done <- accepted{peer: peer, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return fmt.Errorf("handshake with %s: %w", p.name, res.err)
		}
		p.cmd = cmd
		p.stdin = stdin
		p.peer = res.peer
		return nil
	case <-time.After(handshakeTimeout):
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("%w: no handshake from %s within %s", wire.ErrTimeout, p.name, handshakeTimeout)
	}
}

// terminate kills the process and forgets the session.
func (p *Player) terminate(ctx context.Context) {
	if p.cmd == nil {
		return
	}
	if p.stdin != nil {
		_ = p.stdin.Close()
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		slog.WarnContext(ctx, "killing AI process failed", "player", p.name, "error", err)
	}
	_ = p.cmd.Wait()
	p.cmd = nil
	p.stdin = nil
	p.peer = nil
}

// Close tears down any live process.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminate(context.Background())
	return nil
}
