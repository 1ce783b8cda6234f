package visibility

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Window is the popup window as seen by the controller. Implementations
// must be safe to call from any goroutine.
type Window interface {
	Show() error
	Hide() error
	Focus() error
}

// Source identifies what triggered a visibility change.
type Source string

const (
	// SourceHotzone is the presence monitor.
	SourceHotzone Source = "hotzone"
	// SourceCommand is an explicit show/hide/toggle request (CLI, D-Bus).
	SourceCommand Source = "command"
	// SourceTray is a tray or bar icon click.
	SourceTray Source = "tray"
	// SourceFocusLost is the popup window losing keyboard focus.
	SourceFocusLost Source = "focus-lost"
	// SourceLaunch is the popup hiding itself after opening an entry.
	SourceLaunch Source = "launch"
)

// ParseSource maps a free-form trigger name to a Source.
// Unknown names are treated as explicit commands.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceHotzone, SourceCommand, SourceTray, SourceFocusLost, SourceLaunch:
		return Source(s)
	default:
		return SourceCommand
	}
}

// Transition records one write to the flag.
type Transition struct {
	ID      string    // ULID, sortable by time
	Visible bool      // Value written to the flag
	Source  Source    // What asked for the change
	At      time.Time // When the flag was written
	Err     string    // Window error text, empty on success
	Writes  uint64    // Flag write count produced by this transition
}

// TransitionListener is called after every flag write, outside the
// controller lock.
type TransitionListener func(t Transition)

// Controller pairs every flag write with the matching window command.
type Controller struct {
	mu     sync.Mutex
	logger *slog.Logger
	window Window
	flag   *Flag

	// When true the flag is written even if the window command fails.
	optimistic bool

	last      Transition
	hasLast   bool
	listeners []TransitionListener

	now func() time.Time
}

// NewController creates a controller in optimistic mode.
func NewController(window Window, flag *Flag, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if flag == nil {
		flag = NewFlag()
	}
	return &Controller{
		logger:     logger,
		window:     window,
		flag:       flag,
		optimistic: true,
		now:        time.Now,
	}
}

// SetOptimistic selects the failure policy. Optimistic controllers write the
// flag even when the window command fails, so the flag can drift from the
// real window state until the next successful command. Strict controllers
// leave the flag untouched on failure.
func (c *Controller) SetOptimistic(optimistic bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optimistic = optimistic
}

// Optimistic reports the current failure policy.
func (c *Controller) Optimistic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.optimistic
}

// OnTransition registers a listener for flag writes.
func (c *Controller) OnTransition(fn TransitionListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Flag returns the flag the controller writes.
func (c *Controller) Flag() *Flag {
	return c.flag
}

// Visible reports the flag value.
func (c *Controller) Visible() bool {
	return c.flag.Visible()
}

// LastTransition returns the most recent flag write, if any.
func (c *Controller) LastTransition() (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.hasLast
}

// Show shows and focuses the window, then marks the popup visible.
// A focus failure is logged and does not count as a failed show.
func (c *Controller) Show(source Source) error {
	_, err := c.Apply(true, source)
	return err
}

// Hide hides the window, then marks the popup hidden.
func (c *Controller) Hide(source Source) error {
	_, err := c.Apply(false, source)
	return err
}

// Toggle hides a visible popup and shows a hidden one. It returns the value
// it wrote, or the untouched flag if a strict controller rejected a failed
// command. The flag is read and written under one hold of the controller
// lock, so concurrent toggles alternate.
func (c *Controller) Toggle(source Source) (bool, error) {
	c.mu.Lock()
	t, written, err := c.applyLocked(!c.flag.Visible(), source)
	visible := c.flag.Visible()
	if written {
		visible = t.Visible
	}
	listeners := c.listenersLocked(written)
	c.mu.Unlock()

	c.notify(t, listeners)
	return visible, err
}

// FocusLost handles the window losing focus.
func (c *Controller) FocusLost() error {
	return c.Hide(SourceFocusLost)
}

// Apply commands the window and writes the flag. The returned Transition has
// Writes set to the flag write count it produced, or zero when the flag was
// left untouched.
func (c *Controller) Apply(visible bool, source Source) (Transition, error) {
	c.mu.Lock()
	t, written, err := c.applyLocked(visible, source)
	listeners := c.listenersLocked(written)
	c.mu.Unlock()

	c.notify(t, listeners)
	return t, err
}

// applyLocked runs the window command and, unless strict mode rejects the
// failure, writes the flag. Caller must hold the lock.
func (c *Controller) applyLocked(visible bool, source Source) (Transition, bool, error) {
	var err error
	if visible {
		err = c.window.Show()
		if err == nil {
			if ferr := c.window.Focus(); ferr != nil {
				c.logger.Debug("failed to focus popup", "source", source, "error", ferr)
			}
		}
	} else {
		err = c.window.Hide()
	}

	if err != nil {
		c.logger.Warn("window command failed",
			"visible", visible,
			"source", source,
			"optimistic", c.optimistic,
			"error", err,
		)
		if !c.optimistic {
			return Transition{}, false, err
		}
	}

	t := Transition{
		ID:      c.newID(),
		Visible: visible,
		Source:  source,
		At:      c.now(),
		Writes:  c.flag.Set(visible),
	}
	if err != nil {
		t.Err = err.Error()
	}
	c.last = t
	c.hasLast = true
	return t, true, err
}

// listenersLocked snapshots the listeners to notify. Caller must hold the lock.
func (c *Controller) listenersLocked(written bool) []TransitionListener {
	if !written {
		return nil
	}
	return append([]TransitionListener(nil), c.listeners...)
}

func (c *Controller) notify(t Transition, listeners []TransitionListener) {
	if t.Writes == 0 {
		return
	}
	c.logger.Debug("visibility changed", "visible", t.Visible, "source", t.Source, "id", t.ID)
	for _, fn := range listeners {
		fn(t)
	}
}

// newID returns a transition ULID. Caller must hold the lock.
func (c *Controller) newID() string {
	id, err := ulid.New(ulid.Timestamp(c.now()), rand.Reader)
	if err != nil {
		c.logger.Debug("failed to generate transition ID", "error", err)
		return ""
	}
	return id.String()
}
