package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TurnRequest is one GUI-to-AI message: the position, the per-turn time
// budget and the GUI-asserted list of legal moves. NextPlayer is zero for
// versions whose shape carries no next-player line (v1.0.0).
type TurnRequest struct {
	Board      Board
	NextPlayer Tile
	MaxTime    time.Duration
	Moves      []Move
}

// TurnResponse is one AI-to-GUI message. Notes are carried only by the
// legacy shape; versioned shapes are a single move line.
type TurnResponse struct {
	Move  Move
	Notes string
}

// Codec assembles and parses whole protocol messages for one protocol
// version. Message shape is a pure function of the version tag: the legacy
// and v2.0.0-rc1 request shapes carry a next-player line, v1.0.0 does not;
// only the legacy response shape may carry a notes line.
type Codec struct {
	version Version
}

// NewCodec returns the message codec for a protocol version.
func NewCodec(v Version) Codec {
	return Codec{version: v}
}

// Version returns the version the codec is bound to.
func (c Codec) Version() Version {
	return c.version
}

func (c Codec) hasNextPlayerLine() bool {
	return c.version != V1
}

func (c Codec) allowsNotes() bool {
	return c.version == VersionLegacy
}

// ReadTurnRequest parses one turn request from the stream. io.EOF is
// returned unwrapped when the channel closes cleanly before the first board
// line; every other failure is a protocol violation.
func (c Codec) ReadTurnRequest(r *bufio.Reader) (*TurnRequest, error) {
	boardLines := make([]string, 0, BoardSize)
	for i := 0; i < BoardSize; i++ {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF && i == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: reading board line %d: %v", ErrMalformedBoard, i+1, err)
		}
		boardLines = append(boardLines, line)
	}
	board, err := DecodeBoard(boardLines)
	if err != nil {
		return nil, err
	}

	req := &TurnRequest{Board: board}

	if c.hasNextPlayerLine() {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading next-player line: %v", ErrMalformedBoard, err)
		}
		if len(line) != 1 {
			return nil, fmt.Errorf("%w: next-player line %q", ErrMalformedBoard, line)
		}
		player, err := ParsePlayer(line[0])
		if err != nil {
			return nil, err
		}
		req.NextPlayer = player
	}

	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading max-time line: %w", err)
	}
	millis, err := strconv.ParseInt(line, 10, 64)
	if err != nil || millis < 0 {
		return nil, fmt.Errorf("malformed max-time line %q", line)
	}
	req.MaxTime = time.Duration(millis) * time.Millisecond

	moves, err := c.readMoveList(r)
	if err != nil {
		return nil, err
	}
	req.Moves = moves

	return req, nil
}

// readMoveList parses the move-count line: an integer n followed by exactly
// n whitespace-separated move tokens. n = 0 is valid and means the mover has
// no legal moves.
func (c Codec) readMoveList(r *bufio.Reader) ([]Move, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading move-count line: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty move-count line", ErrMoveCountMismatch)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: invalid declared count %q", ErrMoveCountMismatch, fields[0])
	}
	tokens := fields[1:]
	if len(tokens) != n {
		return nil, fmt.Errorf("%w: declared %d moves, found %d", ErrMoveCountMismatch, n, len(tokens))
	}
	moves := make([]Move, 0, n)
	for _, token := range tokens {
		m, err := ParseMove(token)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// WriteTurnRequest emits one turn request in the codec's shape.
func (c Codec) WriteTurnRequest(w io.Writer, req *TurnRequest) error {
	var sb strings.Builder
	for _, line := range EncodeBoard(req.Board) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if c.hasNextPlayerLine() {
		if !req.NextPlayer.Valid() || req.NextPlayer == Empty {
			return fmt.Errorf("%w: request has no next player", ErrMalformedBoard)
		}
		sb.WriteString(req.NextPlayer.String())
		sb.WriteByte('\n')
	}
	sb.WriteString(strconv.FormatInt(req.MaxTime.Milliseconds(), 10))
	sb.WriteByte('\n')
	sb.WriteString(strconv.Itoa(len(req.Moves)))
	for _, m := range req.Moves {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// ReadTurnResponse reads a single move line. It does not attempt to read a
// legacy notes line, since notes are optional and a stream read would block;
// callers holding the peer's complete output use ParseTurnResponse instead.
func (c Codec) ReadTurnResponse(r *bufio.Reader) (*TurnResponse, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	m, err := ParseMove(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	return &TurnResponse{Move: m}, nil
}

// ParseTurnResponse parses a complete response: one move line, optionally
// followed by one free-text notes line in the legacy shape only.
func (c Codec) ParseTurnResponse(output string) (*TurnResponse, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidMoveFormat)
	}
	m, err := ParseMove(lines[0])
	if err != nil {
		return nil, err
	}
	resp := &TurnResponse{Move: m}
	switch {
	case len(lines) == 1:
	case len(lines) == 2 && c.allowsNotes():
		resp.Notes = lines[1]
	default:
		return nil, fmt.Errorf("%w: response has %d lines", ErrInvalidMoveFormat, len(lines))
	}
	return resp, nil
}

// WriteTurnResponse emits one turn response. Setting notes on a versioned
// codec is an error, those shapes carry no notes field.
func (c Codec) WriteTurnResponse(w io.Writer, resp *TurnResponse) error {
	if resp.Notes != "" && !c.allowsNotes() {
		return fmt.Errorf("version %s does not allow notes", c.version)
	}
	out := resp.Move.String() + "\n"
	if resp.Notes != "" {
		out += resp.Notes + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// readLine reads one newline-terminated line, tolerating a trailing carriage
// return and a final line without a newline. A clean end of stream with no
// buffered bytes returns io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
