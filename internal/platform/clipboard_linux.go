//go:build linux
// +build linux

// Package platform adapts the daemon's side effects to the Linux desktop:
// setting the clipboard and showing notifications. Both are thin wrappers
// over the session's external programs; neither holds daemon state.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	cliplib "github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Overridable for tests.
var execLookPath = exec.LookPath

// clipboard write modes
const (
	modePipe    = "pipe"    // text piped to the tool's stdin
	modeArg     = "arg"     // text appended as the final argument
	modeLibrary = "library" // atotto fallback, no external tool
)

// ClipboardWriter copies text to the desktop clipboard. The target program
// is chosen once at construction and fixed for the process lifetime.
type ClipboardWriter struct {
	argv   []string
	mode   string
	logger *zap.Logger
}

// NewClipboardWriter selects the clipboard-setting program. A non-nil
// customArgs bypasses detection entirely: the command is invoked with the
// text appended as its final argument, no shell interpretation. Otherwise
// the default tool is picked by display-server detection: wl-copy on
// Wayland, xclip then xsel on Xorg, with the clipboard library as a last
// resort when no tool is installed.
func NewClipboardWriter(customArgs []string, logger *zap.Logger) *ClipboardWriter {
	w := &ClipboardWriter{logger: logger}

	if len(customArgs) > 0 {
		w.argv = customArgs
		w.mode = modeArg
		return w
	}

	switch {
	case isWaylandSession() && hasCommand("wl-copy"):
		w.argv = []string{"wl-copy"}
		w.mode = modePipe
	case isXorgSession() && hasCommand("xclip"):
		w.argv = []string{"xclip", "-selection", "clipboard"}
		w.mode = modePipe
	case isXorgSession() && hasCommand("xsel"):
		w.argv = []string{"xsel", "-b", "-i"}
		w.mode = modePipe
	default:
		w.mode = modeLibrary
	}

	logger.Debug("selected clipboard writer",
		zap.String("mode", w.mode),
		zap.Strings("argv", w.argv))
	return w
}

// Args returns the selected command line, or nil in library mode. Printed
// as operator-facing startup info.
func (w *ClipboardWriter) Args() []string {
	return w.argv
}

// Copy sets the clipboard to text. Failures are reported to the caller,
// which logs them; a clipboard failure never stops the receive loop.
func (w *ClipboardWriter) Copy(text string) error {
	switch w.mode {
	case modeArg:
		cmd := exec.Command(w.argv[0], append(w.argv[1:], text)...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", w.argv[0], err)
		}
		return nil
	case modePipe:
		cmd := exec.Command(w.argv[0], w.argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", w.argv[0], err)
		}
		return nil
	default:
		if err := cliplib.WriteAll(text); err != nil {
			return fmt.Errorf("clipboard library: %w", err)
		}
		return nil
	}
}

func isWaylandSession() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

func isXorgSession() bool {
	return os.Getenv("WAYLAND_DISPLAY") == ""
}

func hasCommand(name string) bool {
	_, err := execLookPath(name)
	return err == nil
}
