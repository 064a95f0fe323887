package wire

import "errors"

// Protocol error taxonomy. Any parse failure on a turn request is a protocol
// violation and is fatal to the session; ErrMoveNotInList is reportable but
// the hosting application decides whether to reject the move.
var (
	ErrMalformedBoard    = errors.New("malformed board")
	ErrInvalidMoveFormat = errors.New("invalid move format")
	ErrMoveCountMismatch = errors.New("move count mismatch")
	ErrVersionMismatch   = errors.New("version mismatch")
	ErrMoveNotInList     = errors.New("move not in supplied move list")
	ErrTimeout           = errors.New("move selection timed out")
)
