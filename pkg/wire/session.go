package wire

import "sync/atomic"

// Session holds the process-wide state of one game exchange: the negotiated
// version and a monotonically increasing turn counter. It is created at
// handshake completion and discarded when the channel closes. The version is
// immutable for the session's lifetime.
type Session struct {
	version Version
	turns   atomic.Uint64
}

func newSession(v Version) *Session {
	return &Session{version: v}
}

// LegacySession returns a session bound to the pre-handshake message shape.
// It starts directly in a pseudo-negotiated state.
func LegacySession() *Session {
	return newSession(VersionLegacy)
}

// Version returns the negotiated protocol version.
func (s *Session) Version() Version {
	return s.version
}

// NextTurn increments and returns the turn counter.
func (s *Session) NextTurn() uint64 {
	return s.turns.Add(1)
}

// Turns returns the number of turns started so far.
func (s *Session) Turns() uint64 {
	return s.turns.Load()
}
