package dbus

import (
	"fmt"

	"github.com/jmylchreest/joodock/internal/visibility"
)

// SignalVisibilityChanged is the fully qualified signal name.
const SignalVisibilityChanged = Interface + ".VisibilityChanged"

// EmitVisibilityChanged emits the VisibilityChanged signal.
func (s *Server) EmitVisibilityChanged(visible bool, source visibility.Source) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := conn.Emit(ObjectPath, SignalVisibilityChanged, visible, string(source)); err != nil {
		return fmt.Errorf("failed to emit VisibilityChanged signal: %w", err)
	}

	s.logger.Debug("emitted VisibilityChanged signal", "visible", visible, "source", source)
	return nil
}

// parseVisibilityChanged decodes a VisibilityChanged signal body.
func parseVisibilityChanged(body []any) (bool, visibility.Source, error) {
	if len(body) != 2 {
		return false, "", fmt.Errorf("VisibilityChanged: expected 2 values, got %d", len(body))
	}
	visible, ok := body[0].(bool)
	if !ok {
		return false, "", fmt.Errorf("VisibilityChanged: visible is %T", body[0])
	}
	source, ok := body[1].(string)
	if !ok {
		return false, "", fmt.Errorf("VisibilityChanged: source is %T", body[1])
	}
	return visible, visibility.Source(source), nil
}
