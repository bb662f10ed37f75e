//go:build linux
// +build linux

// Package pipe owns the command FIFO's lifecycle: creating it, repairing a
// stale entry, and handing out one read stream per connected writer.
//
// Precondition: a single producer writes to the FIFO at a time. The daemon
// is the only reader; two daemons racing to read the same FIFO is
// unsupported and the OS splits lines between them arbitrarily.
package pipe

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Pipe wraps exactly one OS-level FIFO at a well-known path.
type Pipe struct {
	path   string
	logger *zap.Logger
}

// New returns a Pipe for the FIFO at path.
func New(path string, logger *zap.Logger) *Pipe {
	return &Pipe{path: path, logger: logger}
}

// Path returns the FIFO's filesystem location.
func (p *Pipe) Path() string {
	return p.path
}

// IsFIFO reports whether a FIFO exists at path.
func IsFIFO(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeNamedPipe != 0
}

// Ensure makes sure a clean FIFO exists at the pipe path. It is idempotent:
// a stale non-FIFO entry is removed, a missing FIFO is created. The entry is
// left in place across daemon restarts.
func (p *Pipe) Ensure() error {
	info, err := os.Lstat(p.path)
	switch {
	case err == nil && info.Mode()&os.ModeNamedPipe != 0:
		return nil
	case err == nil:
		p.logger.Warn("removing stale non-FIFO entry at pipe path", zap.String("path", p.path))
		if err := os.Remove(p.path); err != nil {
			return fmt.Errorf("failed to remove stale entry at %s: %w", p.path, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to stat pipe path %s: %w", p.path, err)
	}

	if err := unix.Mkfifo(p.path, 0o600); err != nil {
		return fmt.Errorf("failed to create FIFO at %s: %w", p.path, err)
	}
	p.logger.Info("created command FIFO", zap.String("path", p.path))
	return nil
}

// Open opens the FIFO for reading. FIFO open semantics apply: the call
// blocks until a writer connects. Each call yields a fresh stream that ends
// when the writer closes its end; the caller closes the file and calls Open
// again for the next producer.
//
// Cancelling ctx unblocks a pending open by briefly connecting as a writer.
func (p *Pipe) Open(ctx context.Context) (*os.File, error) {
	type opened struct {
		f   *os.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := os.OpenFile(p.path, os.O_RDONLY, 0)
		ch <- opened{f: f, err: err}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			return nil, fmt.Errorf("failed to open FIFO %s: %w", p.path, o.err)
		}
		return o.f, nil
	case <-ctx.Done():
		// The pending O_RDONLY counts as a reader, so a non-blocking
		// write-end open succeeds and releases it.
		if w, err := os.OpenFile(p.path, os.O_WRONLY|unix.O_NONBLOCK, 0); err == nil {
			w.Close()
		}
		if o := <-ch; o.f != nil {
			o.f.Close()
		}
		return nil, ctx.Err()
	}
}
