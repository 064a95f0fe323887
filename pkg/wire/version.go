package wire

import (
	"bufio"
	"fmt"
	"io"
)

// Version identifies a protocol message shape. The set of tags is closed but
// growing; VersionLegacy is a pseudo-tag for the pre-handshake shape and
// never appears on the wire.
type Version string

const (
	VersionLegacy Version = "legacy"
	V1            Version = "v1.0.0"
	V2RC1         Version = "v2.0.0-rc1"
)

// SupportedVersions is the default set of negotiable versions.
func SupportedVersions() []Version {
	return []Version{V1, V2RC1}
}

// NegotiationState tracks the one-time handshake.
type NegotiationState int

const (
	AwaitingHandshake NegotiationState = iota
	Negotiated
)

// Negotiator performs the one-time version handshake. The AI peer offers a
// single version tag; the GUI peer accepts it only if it is in the
// configured supported set. Negotiation is terminal for the life of the
// session, there is no renegotiation.
type Negotiator struct {
	supported map[Version]struct{}
	state     NegotiationState
}

// NewNegotiator creates a negotiator for the given supported set, or for
// SupportedVersions() when none is given.
func NewNegotiator(supported ...Version) *Negotiator {
	if len(supported) == 0 {
		supported = SupportedVersions()
	}
	set := make(map[Version]struct{}, len(supported))
	for _, v := range supported {
		set[v] = struct{}{}
	}
	return &Negotiator{supported: set, state: AwaitingHandshake}
}

// State returns the current negotiation state.
func (n *Negotiator) State() NegotiationState {
	return n.state
}

// Offer writes the AI side's version tag and binds a session to it. The tag
// must be one the negotiator itself supports.
func (n *Negotiator) Offer(w io.Writer, v Version) (*Session, error) {
	if n.state == Negotiated {
		return nil, fmt.Errorf("handshake already completed")
	}
	if _, ok := n.supported[v]; !ok {
		return nil, fmt.Errorf("%w: cannot offer unsupported version %q", ErrVersionMismatch, v)
	}
	if _, err := fmt.Fprintf(w, "%s\n", v); err != nil {
		return nil, fmt.Errorf("writing handshake: %w", err)
	}
	n.state = Negotiated
	return newSession(v), nil
}

// Accept reads the AI side's handshake line and validates it against the
// supported set. An unsupported or malformed tag fails with
// ErrVersionMismatch and the session must not proceed.
func (n *Negotiator) Accept(r *bufio.Reader) (*Session, error) {
	if n.state == Negotiated {
		return nil, fmt.Errorf("handshake already completed")
	}
	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading handshake: %w", err)
	}
	v := Version(line)
	if _, ok := n.supported[v]; !ok {
		return nil, fmt.Errorf("%w: peer offered %q", ErrVersionMismatch, line)
	}
	n.state = Negotiated
	return newSession(v), nil
}
