package protocol

import (
	"bufio"
	"io"
)

// Stream yields parsed commands from one reader, typically a single FIFO
// open. It is tied to that reader's lifetime and is not restartable: once
// Next returns io.EOF the producer has disconnected and the caller reopens
// the pipe for a fresh stream.
type Stream struct {
	sc *bufio.Scanner
}

// NewStream wraps a line-oriented reader in a command stream.
func NewStream(r io.Reader) *Stream {
	return &Stream{sc: bufio.NewScanner(r)}
}

// Next returns the next command on the stream. It returns io.EOF when the
// writer closes its end, a *ParseError for a malformed line (the stream
// stays usable and the caller may keep reading), or the underlying read
// error.
func (s *Stream) Next() (Command, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return Command{}, err
		}
		return Command{}, io.EOF
	}
	return Parse(s.sc.Text())
}
