package dbus

import (
	"errors"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/joodock/internal/visibility"
)

const (
	// BusName is the well-known name claimed by joodockd.
	BusName = "io.github.jmylchreest.joodock"
	// ObjectPath is the dock object path.
	ObjectPath = dbus.ObjectPath("/io/github/jmylchreest/joodock")
	// Interface is the dock interface name.
	Interface = "io.github.jmylchreest.joodock"

	// ErrorWindow is the D-Bus error name for failed window commands.
	ErrorWindow = Interface + ".Error.Window"
)

// ErrDaemonNotRunning is returned by the client when no daemon owns BusName.
var ErrDaemonNotRunning = errors.New("joodockd is not running")

// Status is the daemon's answer to Status().
type Status struct {
	Visible bool             `json:"visible"`
	Source  visibility.Source `json:"source,omitempty"`
	At      time.Time        `json:"at,omitempty"`
	ID      string           `json:"id,omitempty"`
}

// HasTransition reports whether the daemon has changed visibility yet.
func (s Status) HasTransition() bool {
	return s.ID != "" || !s.At.IsZero()
}

// statusFromTransition converts the last transition to wire values.
func statusFromTransition(visible bool, t visibility.Transition, ok bool) (bool, string, int64, string) {
	if !ok {
		return visible, "", 0, ""
	}
	return visible, string(t.Source), t.At.UnixMilli(), t.ID
}

// statusFromWire rebuilds a Status from a Status() reply.
func statusFromWire(visible bool, source string, atMillis int64, id string) Status {
	s := Status{
		Visible: visible,
		Source:  visibility.Source(source),
		ID:      id,
	}
	if atMillis > 0 {
		s.At = time.UnixMilli(atMillis)
	}
	return s
}

// windowError converts a window command failure for the caller.
func windowError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	return dbus.NewError(ErrorWindow, []any{err.Error()})
}
