// Package protocol defines the wire format spoken over the command FIFO.
//
// Each command is a single UTF-8 line of the form "<action>::<file_path>".
// The format is shared with external producers, so it must stay byte-for-byte
// compatible: two fields, a literal "::" delimiter, newline-terminated.
package protocol

import (
	"fmt"
	"strings"
)

// Delimiter separates the action from the file path on the wire.
const Delimiter = "::"

// Action identifies what the daemon should do with a command.
type Action string

const (
	ActionHold      Action = "hold"
	ActionRecognize Action = "recognize"
	ActionStop      Action = "stop"
	// ActionUnknown marks an action string the daemon does not understand.
	// Unknown commands still parse; dispatch treats them as an explicit no-op.
	ActionUnknown Action = "unknown"
)

// ParseAction maps a wire action string to a typed Action.
func ParseAction(s string) Action {
	switch s {
	case "hold":
		return ActionHold
	case "recognize":
		return ActionRecognize
	case "stop":
		return ActionStop
	default:
		return ActionUnknown
	}
}

// Command is one parsed FIFO line. It is immutable once constructed and
// lives for a single dispatch cycle.
type Command struct {
	Action   Action
	FilePath string
}

// Encode renders the command back into its wire form, without the trailing
// newline. Used by the producer side (the send subcommand and tests).
func (c Command) Encode() string {
	return string(c.Action) + Delimiter + c.FilePath
}

// ParseError reports a line that does not match the wire format. Malformed
// lines are dropped by the receive loop; they never reach dispatch.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed command line %q: want exactly two %q-separated fields", e.Line, Delimiter)
}

// Parse converts a raw line into a Command. The line must split on the
// delimiter into exactly two fields; anything else is a ParseError. Parsing
// is purely syntactic: the file path is not checked for existence here, that
// is the dispatcher's concern.
func Parse(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Delimiter)
	if len(parts) != 2 {
		return Command{}, &ParseError{Line: line}
	}
	return Command{Action: ParseAction(parts[0]), FilePath: parts[1]}, nil
}
