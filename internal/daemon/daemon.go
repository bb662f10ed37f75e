//go:build linux
// +build linux

// Package daemon orchestrates the receive loop: acquire a FIFO stream,
// drain it through the session, release it, reacquire. The loop has no
// terminal state reachable from the command protocol; it runs until the
// context is cancelled or a fatal error surfaces.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ajatt-tools/mangaocrd/internal/pipe"
	"github.com/ajatt-tools/mangaocrd/internal/protocol"
	"github.com/ajatt-tools/mangaocrd/internal/session"
)

// Daemon couples the pipe channel to the command session.
type Daemon struct {
	pipe    *pipe.Pipe
	session *session.Session
	logger  *zap.Logger
}

// New constructs a Daemon.
func New(p *pipe.Pipe, s *session.Session, logger *zap.Logger) *Daemon {
	return &Daemon{pipe: p, session: s, logger: logger}
}

// Run ensures the FIFO exists and enters the receive loop. Each iteration
// blocks until a writer connects, drains that writer's commands in order,
// then reopens for the next one. Returns when ctx is cancelled (clean
// shutdown) or on a fatal pipe/engine error.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.pipe.Ensure(); err != nil {
		return err
	}

	fmt.Printf("Reading from %s\n", d.pipe.Path())
	d.logger.Info("listening for commands", zap.String("pipe", d.pipe.Path()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		stream, err := d.pipe.Open(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("pipe open: %w", err)
		}
		if err := d.drain(ctx, stream); err != nil {
			return err
		}
		d.logger.Debug("writer disconnected, reopening pipe")
	}
}

// drain processes one stream lifetime. The file is closed on every exit
// path. Malformed lines are dropped with a warning; dispatch errors (engine
// failures) abort the daemon.
func (d *Daemon) drain(ctx context.Context, f *os.File) error {
	defer f.Close()

	commands := protocol.NewStream(f)
	for {
		cmd, err := commands.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var perr *protocol.ParseError
		if errors.As(err, &perr) {
			d.logger.Warn("dropping malformed command", zap.String("line", perr.Line))
			continue
		}
		if err != nil {
			return fmt.Errorf("pipe read: %w", err)
		}

		d.logger.Debug("dispatching command",
			zap.String("action", string(cmd.Action)),
			zap.String("path", cmd.FilePath))
		if err := d.session.Dispatch(ctx, cmd); err != nil {
			return err
		}
	}
}
