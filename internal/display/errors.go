package display

import "errors"

// ErrDispatchTimeout is returned when the GTK main loop did not run a
// window command in time.
var ErrDispatchTimeout = errors.New("timed out waiting for GTK main loop")

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
