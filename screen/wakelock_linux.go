//go:build linux

package screen

import (
	"fmt"

	"github.com/anisan-cli/playcore/constant"
	"github.com/godbus/dbus/v5"
)

const (
	screenSaverDest = "org.freedesktop.ScreenSaver"
	screenSaverPath = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
)

// DBusWakeLock inhibits the desktop screensaver over the session bus.
type DBusWakeLock struct {
	conn *dbus.Conn
}

// NewDBusWakeLock connects to the session bus.
func NewDBusWakeLock() (*DBusWakeLock, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBusWakeLock{conn: conn}, nil
}

// Acquire calls Inhibit and returns a release calling UnInhibit with the cookie.
func (l *DBusWakeLock) Acquire(reason string) (func() error, error) {
	obj := l.conn.Object(screenSaverDest, screenSaverPath)

	var cookie uint32
	if err := obj.Call(screenSaverDest+".Inhibit", 0, constant.Playcore, reason).Store(&cookie); err != nil {
		return nil, fmt.Errorf("inhibit screensaver: %w", err)
	}

	return func() error {
		if call := obj.Call(screenSaverDest+".UnInhibit", 0, cookie); call.Err != nil {
			return fmt.Errorf("uninhibit screensaver: %w", call.Err)
		}
		return nil
	}, nil
}

// Close disconnects from the bus.
func (l *DBusWakeLock) Close() error {
	return l.conn.Close()
}

// System returns the platform wake lock, or nil when none is reachable.
func System() WakeLock {
	lock, err := NewDBusWakeLock()
	if err != nil {
		return nil
	}
	return lock
}
