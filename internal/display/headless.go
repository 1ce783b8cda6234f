package display

import (
	"log/slog"
	"sync"
)

// HeadlessWindow satisfies visibility.Window without a display. It logs each
// command and remembers the last requested state.
type HeadlessWindow struct {
	mu      sync.Mutex
	logger  *slog.Logger
	visible bool
	shows   int
	hides   int
}

// NewHeadlessWindow creates a headless window.
func NewHeadlessWindow(logger *slog.Logger) *HeadlessWindow {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeadlessWindow{logger: logger}
}

// Show implements visibility.Window.
func (w *HeadlessWindow) Show() error {
	w.mu.Lock()
	w.visible = true
	w.shows++
	n := w.shows
	w.mu.Unlock()

	w.logger.Info("popup shown", "count", n)
	return nil
}

// Hide implements visibility.Window.
func (w *HeadlessWindow) Hide() error {
	w.mu.Lock()
	w.visible = false
	w.hides++
	n := w.hides
	w.mu.Unlock()

	w.logger.Info("popup hidden", "count", n)
	return nil
}

// Focus implements visibility.Window.
func (w *HeadlessWindow) Focus() error {
	w.logger.Debug("popup focused")
	return nil
}

// Visible reports the last requested state.
func (w *HeadlessWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Counts returns how many show and hide commands were received.
func (w *HeadlessWindow) Counts() (shows, hides int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows, w.hides
}
