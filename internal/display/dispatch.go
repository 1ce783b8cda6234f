package display

import (
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
)

// DefaultDispatchTimeout bounds how long a window command waits for the
// main loop.
const DefaultDispatchTimeout = 2 * time.Second

// Dispatcher schedules fn on the UI thread.
type Dispatcher func(fn func())

// IdleDispatcher runs fn from the GLib main loop.
func IdleDispatcher(fn func()) {
	glib.IdleAdd(fn)
}

// Dispatch states for one runOnMain call.
const (
	dispatchPending int32 = iota
	dispatchRunning
	dispatchAbandoned
)

// runOnMain schedules fn through dispatch and waits for its result.
// It must not be called from the UI thread. If the wait times out before
// the main loop picked fn up, fn is abandoned and never runs, so a late
// command cannot contradict the caller's view of the window.
func runOnMain(dispatch Dispatcher, timeout time.Duration, fn func() error) error {
	var state atomic.Int32
	done := make(chan error, 1)
	dispatch(func() {
		if !state.CompareAndSwap(dispatchPending, dispatchRunning) {
			return
		}
		done <- fn()
	})

	if timeout <= 0 {
		return <-done
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		if state.CompareAndSwap(dispatchPending, dispatchAbandoned) {
			return ErrDispatchTimeout
		}
		// Already running on the main loop; its result is the real one.
		return <-done
	}
}
