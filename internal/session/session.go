// Package session implements the command state machine: it holds the
// accumulated recognized text and dispatches each command to the OCR engine
// and the desktop side effects.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ajatt-tools/mangaocrd/internal/ocr"
	"github.com/ajatt-tools/mangaocrd/internal/protocol"
	"github.com/ajatt-tools/mangaocrd/internal/storage"
)

// Separator joins held fragments when flushing to the clipboard. Full-width
// interpunct, shared with the original wire consumers.
const Separator = "、"

// Clipboard sets the desktop clipboard.
type Clipboard interface {
	Copy(text string) error
}

// Notifier shows an operator-facing message. Delivery is best-effort.
type Notifier interface {
	Notify(message string)
}

// History records successful recognitions. Optional.
type History interface {
	SaveRecord(rec *storage.Record) error
}

// SessionConfig holds the collaborators a Session dispatches through.
type SessionConfig struct {
	Engine    ocr.Engine
	Clipboard Clipboard
	Notifier  Notifier
	History   History // nil disables persistence
	Logger    *zap.Logger
}

// Session owns the hold buffer. It is not safe for concurrent use: the
// receive loop is the sole caller, and text order depends on processing
// order.
type Session struct {
	engine    ocr.Engine
	clipboard Clipboard
	notifier  Notifier
	history   History
	logger    *zap.Logger
	held      []string
}

// New constructs a Session with an empty hold buffer.
func New(cfg SessionConfig) *Session {
	return &Session{
		engine:    cfg.Engine,
		clipboard: cfg.Clipboard,
		notifier:  cfg.Notifier,
		history:   cfg.History,
		logger:    cfg.Logger,
	}
}

// Dispatch processes one command.
//
//   - stop: emits a notification only. It does not terminate the receive
//     loop; stopping the process is the producer's job (kill). Advisory by
//     observed behavior of the original listener.
//   - hold: recognizes the file, appends the text to the hold buffer.
//   - recognize: recognizes the file, flushes the buffer joined with the new
//     text to the clipboard, clears the buffer.
//   - unknown: explicit no-op.
//
// Commands whose file no longer exists are silently dropped: producers
// clean up screenshots asynchronously and a vanished file must not take the
// daemon down. Both hold and recognize delete the file afterwards as the
// protocol's acknowledgement. Engine errors propagate to the caller.
func (s *Session) Dispatch(ctx context.Context, cmd protocol.Command) error {
	switch cmd.Action {
	case protocol.ActionStop:
		s.notifier.Notify("Stopped listening.")
		return nil
	case protocol.ActionUnknown:
		s.logger.Debug("ignoring unknown action", zap.String("path", cmd.FilePath))
		return nil
	}

	if !isFile(cmd.FilePath) {
		s.logger.Debug("dropping command for missing file",
			zap.String("action", string(cmd.Action)),
			zap.String("path", cmd.FilePath))
		return nil
	}

	switch cmd.Action {
	case protocol.ActionHold:
		text, err := s.engine.Recognize(ctx, cmd.FilePath)
		if err != nil {
			return fmt.Errorf("recognize %s: %w", cmd.FilePath, err)
		}
		s.held = append(s.held, text)
		s.notifier.Notify("Holding " + text)
		s.record(cmd, text)

	case protocol.ActionRecognize:
		text, err := s.engine.Recognize(ctx, cmd.FilePath)
		if err != nil {
			return fmt.Errorf("recognize %s: %w", cmd.FilePath, err)
		}
		parts := make([]string, 0, len(s.held)+1)
		parts = append(parts, s.held...)
		parts = append(parts, text)
		joined := strings.Join(parts, Separator)

		if err := s.clipboard.Copy(joined); err != nil {
			s.logger.Warn("clipboard copy failed", zap.Error(err))
		}
		s.notifier.Notify("Copied " + joined)
		s.held = s.held[:0]
		s.record(cmd, text)
	}

	if err := os.Remove(cmd.FilePath); err != nil {
		s.logger.Warn("failed to remove processed file",
			zap.String("path", cmd.FilePath),
			zap.Error(err))
	}
	return nil
}

// HeldCount reports the number of fragments awaiting a flush.
func (s *Session) HeldCount() int {
	return len(s.held)
}

// record appends to the history store, best-effort.
func (s *Session) record(cmd protocol.Command, text string) {
	if s.history == nil {
		return
	}
	err := s.history.SaveRecord(&storage.Record{
		Action:     string(cmd.Action),
		Text:       text,
		SourcePath: cmd.FilePath,
	})
	if err != nil {
		s.logger.Warn("failed to record recognition history", zap.Error(err))
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
