// Package aiproc hosts external AIs: it speaks the GUI side of the turn
// exchange protocol and manages the subprocesses the AIs run in.
package aiproc

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"othello-arena/pkg/wire"
)

// Peer is the GUI side of one protocol session over an established byte
// channel: it emits turn requests and collects responses under the per-turn
// time budget.
type Peer struct {
	session *wire.Session
	codec   wire.Codec
	r       *bufio.Reader
	w       io.Writer
}

// NewLegacyPeer binds a peer to a channel in the pre-handshake shape.
func NewLegacyPeer(r io.Reader, w io.Writer) *Peer {
	session := wire.LegacySession()
	return &Peer{
		session: session,
		codec:   wire.NewCodec(session.Version()),
		r:       bufio.NewReader(r),
		w:       w,
	}
}

// AcceptPeer reads the AI side's handshake line and binds a peer to the
// negotiated version. An offer outside the supported set fails with
// wire.ErrVersionMismatch.
func AcceptPeer(r io.Reader, w io.Writer, supported ...wire.Version) (*Peer, error) {
	br := bufio.NewReader(r)
	session, err := wire.NewNegotiator(supported...).Accept(br)
	if err != nil {
		return nil, err
	}
	return &Peer{
		session: session,
		codec:   wire.NewCodec(session.Version()),
		r:       br,
		w:       w,
	}, nil
}

// Version returns the session's negotiated version.
func (p *Peer) Version() wire.Version {
	return p.session.Version()
}

// Session exposes the peer's session state.
func (p *Peer) Session() *wire.Session {
	return p.session
}

// Exchange runs one request/response cycle. When the request's time budget
// lapses before a response line arrives, Exchange fails with wire.ErrTimeout
// and the peer must be discarded: the abandoned read still owns the stream.
func (p *Peer) Exchange(ctx context.Context, req *wire.TurnRequest) (*wire.TurnResponse, error) {
	if err := p.codec.WriteTurnRequest(p.w, req); err != nil {
		return nil, fmt.Errorf("writing turn request: %w", err)
	}
	p.session.NextTurn()

	if req.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.MaxTime)
		defer cancel()
	}

	type result struct {
		resp *wire.TurnResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.codec.ReadTurnResponse(p.r)
		done <- result{resp: resp, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("reading turn response: %w", res.err)
		}
		return res.resp, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s", wire.ErrTimeout, req.MaxTime)
		}
		return nil, ctx.Err()
	}
}
