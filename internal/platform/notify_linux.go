//go:build linux
// +build linux

package platform

import (
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	notifyAppName   = "manga-ocr"
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications.Notify"
)

// DesktopNotifier shows messages on the operator console and via the
// desktop notification service. Notification delivery is best-effort:
// failures are logged and never propagate to the receive loop.
type DesktopNotifier struct {
	conn   *dbus.Conn
	logger *zap.Logger
}

// NewDesktopNotifier connects to the session bus. A missing bus is fine;
// the notifier falls back to notify-send and console output.
func NewDesktopNotifier(logger *zap.Logger) *DesktopNotifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Debug("session bus unavailable, using notify-send fallback", zap.Error(err))
		conn = nil
	}
	return &DesktopNotifier{conn: conn, logger: logger}
}

// Notify writes message to stdout and asks the desktop notification service
// to display it.
func (n *DesktopNotifier) Notify(message string) {
	fmt.Println(message)

	if n.conn != nil {
		obj := n.conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
		call := obj.Call(notifyInterface, 0,
			notifyAppName,            // app_name
			uint32(0),                // replaces_id
			"",                       // app_icon
			notifyAppName,            // summary
			message,                  // body
			[]string{},               // actions
			map[string]dbus.Variant{}, // hints
			int32(-1),                // expire_timeout
		)
		if call.Err == nil {
			return
		}
		n.logger.Debug("dbus notification failed, trying notify-send", zap.Error(call.Err))
	}

	if err := exec.Command("notify-send", notifyAppName, message).Start(); err != nil {
		n.logger.Warn("desktop notification failed", zap.Error(err))
	}
}

// Close releases the bus connection.
func (n *DesktopNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
