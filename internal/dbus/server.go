package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/joodock/internal/visibility"
)

// Controller is the part of visibility.Controller the server needs.
type Controller interface {
	Show(source visibility.Source) error
	Hide(source visibility.Source) error
	Toggle(source visibility.Source) (bool, error)
	Visible() bool
	LastTransition() (visibility.Transition, bool)
	OnTransition(fn visibility.TransitionListener)
}

// Server implements the io.github.jmylchreest.joodock D-Bus interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger
	ctrl   Controller

	mu      sync.RWMutex
	running bool
}

// NewServer creates a server and subscribes it to visibility changes so it
// can emit VisibilityChanged once started.
func NewServer(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger,
		ctrl:   ctrl,
	}
	ctrl.OnTransition(s.onTransition)
	return s
}

// Start connects to the session bus and exports the dock service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: dockMethods(),
				Signals: dockSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus dock server started", "name", BusName, "path", ObjectPath)
	return nil
}

// Stop releases the bus name.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus dock server stopped")
	return nil
}

// Show shows the popup.
// D-Bus method: Show(s) -> nothing
func (s *Server) Show(source string) *dbus.Error {
	s.logger.Debug("Show called", "source", source)
	return windowError(s.ctrl.Show(visibility.ParseSource(source)))
}

// Hide hides the popup.
// D-Bus method: Hide(s) -> nothing
func (s *Server) Hide(source string) *dbus.Error {
	s.logger.Debug("Hide called", "source", source)
	return windowError(s.ctrl.Hide(visibility.ParseSource(source)))
}

// Toggle flips the popup and returns the new visibility.
// D-Bus method: Toggle(s) -> b
func (s *Server) Toggle(source string) (bool, *dbus.Error) {
	s.logger.Debug("Toggle called", "source", source)
	visible, err := s.ctrl.Toggle(visibility.ParseSource(source))
	return visible, windowError(err)
}

// IsVisible reports the visibility flag.
// D-Bus method: IsVisible() -> b
func (s *Server) IsVisible() (bool, *dbus.Error) {
	return s.ctrl.Visible(), nil
}

// Status returns the flag and the last transition.
// D-Bus method: Status() -> (b visible, s source, x at_unix_ms, s id)
func (s *Server) Status() (bool, string, int64, string, *dbus.Error) {
	t, ok := s.ctrl.LastTransition()
	visible, source, at, id := statusFromTransition(s.ctrl.Visible(), t, ok)
	return visible, source, at, id, nil
}

func (s *Server) onTransition(t visibility.Transition) {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()
	if !running {
		return
	}
	if err := s.EmitVisibilityChanged(t.Visible, t.Source); err != nil {
		s.logger.Warn("failed to emit VisibilityChanged signal", "error", err)
	}
}

// dockMethods returns the D-Bus method introspection data.
func dockMethods() []introspect.Method {
	source := introspect.Arg{Name: "source", Type: "s", Direction: "in"}
	return []introspect.Method{
		{Name: "Show", Args: []introspect.Arg{source}},
		{Name: "Hide", Args: []introspect.Arg{source}},
		{
			Name: "Toggle",
			Args: []introspect.Arg{
				source,
				{Name: "visible", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "IsVisible",
			Args: []introspect.Arg{
				{Name: "visible", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "visible", Type: "b", Direction: "out"},
				{Name: "source", Type: "s", Direction: "out"},
				{Name: "at", Type: "x", Direction: "out"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
	}
}

// dockSignals returns the D-Bus signal introspection data.
func dockSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "VisibilityChanged",
			Args: []introspect.Arg{
				{Name: "visible", Type: "b"},
				{Name: "source", Type: "s"},
			},
		},
	}
}
