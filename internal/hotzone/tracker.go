package hotzone

import (
	"fmt"
	"time"
)

// Default hot zone settings.
const (
	DefaultZoneWidth    = 300
	DefaultZoneHeight   = 50
	DefaultShowDelay    = 300 * time.Millisecond
	DefaultHideDelay    = 2000 * time.Millisecond
	DefaultPollInterval = 100 * time.Millisecond
)

// Settings controls the hover zone size and the debounce timing.
type Settings struct {
	ZoneWidth    int           // Hover zone width in pixels
	ZoneHeight   int           // Hover zone height in pixels
	ShowDelay    time.Duration // Continuous dwell in the hover zone before showing
	HideDelay    time.Duration // Continuous dwell outside all zones before hiding
	PollInterval time.Duration // Time between pointer samples
}

// DefaultSettings returns the stock hot zone settings.
func DefaultSettings() Settings {
	return Settings{
		ZoneWidth:    DefaultZoneWidth,
		ZoneHeight:   DefaultZoneHeight,
		ShowDelay:    DefaultShowDelay,
		HideDelay:    DefaultHideDelay,
		PollInterval: DefaultPollInterval,
	}
}

// Validate checks that the settings can drive a tracker.
func (s Settings) Validate() error {
	if s.ZoneWidth <= 0 || s.ZoneHeight <= 0 {
		return fmt.Errorf("hover zone must be positive, got %dx%d", s.ZoneWidth, s.ZoneHeight)
	}
	if s.ShowDelay < 0 || s.HideDelay < 0 {
		return fmt.Errorf("delays must not be negative (show=%s, hide=%s)", s.ShowDelay, s.HideDelay)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.PollInterval)
	}
	return nil
}

// Decision is what a tracker step asks the caller to do.
type Decision int

const (
	// DecisionNone means the popup stays as it is.
	DecisionNone Decision = iota
	// DecisionShow means the popup should be shown and focused.
	DecisionShow
	// DecisionHide means the popup should be hidden.
	DecisionHide
)

// String returns the string representation of Decision.
func (d Decision) String() string {
	switch d {
	case DecisionNone:
		return "none"
	case DecisionShow:
		return "show"
	case DecisionHide:
		return "hide"
	default:
		return "unknown"
	}
}

// Phase describes the tracker state relative to the popup visibility.
// The armed phases are pending timers layered on top of hidden and visible.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseArmedToShow
	PhaseVisible
	PhaseArmedToHide
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseArmedToShow:
		return "armed-to-show"
	case PhaseVisible:
		return "visible"
	case PhaseArmedToHide:
		return "armed-to-hide"
	default:
		return "unknown"
	}
}

// Tracker is the debounce state machine. It holds the show and hide timers
// and turns one pointer sample at a time into a Decision. It does not own the
// visibility flag; the caller passes the current value into every Step.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	settings  Settings
	showSince time.Time // Zero means unset
	hideSince time.Time // Zero means unset
}

// NewTracker creates a tracker with both timers unset.
func NewTracker(settings Settings) *Tracker {
	return &Tracker{settings: settings}
}

// Settings returns the settings the tracker currently uses.
func (t *Tracker) Settings() Settings {
	return t.settings
}

// SetSettings replaces the settings. Pending timers are kept; a changed
// delay applies to the timer already running.
func (t *Tracker) SetSettings(settings Settings) {
	t.settings = settings
}

// Reset clears both timers.
func (t *Tracker) Reset() {
	t.showSince = time.Time{}
	t.hideSince = time.Time{}
}

// Step advances the state machine by one sample.
func (t *Tracker) Step(visible bool, pointer Point, screen Size, now time.Time) Decision {
	inHoverZone := HoverZone(screen, t.settings.ZoneWidth, t.settings.ZoneHeight).Contains(pointer)

	if !visible {
		t.hideSince = time.Time{}

		if !inHoverZone {
			t.showSince = time.Time{}
			return DecisionNone
		}
		if t.showSince.IsZero() {
			t.showSince = now
			return DecisionNone
		}
		if now.Sub(t.showSince) >= t.settings.ShowDelay {
			t.showSince = time.Time{}
			return DecisionShow
		}
		return DecisionNone
	}

	t.showSince = time.Time{}

	inSafeArea := inHoverZone || SafeArea(screen).Contains(pointer)
	if inSafeArea {
		t.hideSince = time.Time{}
		return DecisionNone
	}
	if t.hideSince.IsZero() {
		t.hideSince = now
		return DecisionNone
	}
	if now.Sub(t.hideSince) >= t.settings.HideDelay {
		t.hideSince = time.Time{}
		return DecisionHide
	}
	return DecisionNone
}

// Phase reports the tracker phase for the given visibility.
func (t *Tracker) Phase(visible bool) Phase {
	if visible {
		if !t.hideSince.IsZero() {
			return PhaseArmedToHide
		}
		return PhaseVisible
	}
	if !t.showSince.IsZero() {
		return PhaseArmedToShow
	}
	return PhaseHidden
}

// ShowArmedAt returns when the show timer was armed, or the zero time.
func (t *Tracker) ShowArmedAt() time.Time {
	return t.showSince
}

// HideArmedAt returns when the hide timer was armed, or the zero time.
func (t *Tracker) HideArmedAt() time.Time {
	return t.hideSince
}
