package hotzone

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/joodock/internal/visibility"
)

// ErrUnsupported is returned by samplers that cannot query the pointer on
// this platform or session. A monitor fed by such a sampler never
// transitions.
var ErrUnsupported = errors.New("pointer query not supported on this platform")

// DefaultSampleTimeout bounds a single pointer or screen query.
const DefaultSampleTimeout = 500 * time.Millisecond

// Sampler reads the pointer position and primary screen size.
type Sampler interface {
	CursorPosition(ctx context.Context) (Point, error)
	ScreenSize(ctx context.Context) (Size, error)
}

// Commander issues show and hide commands for the popup. It is satisfied by
// *visibility.Controller. The returned Transition carries the flag write
// count the command produced, zero if the flag was not written.
type Commander interface {
	Apply(visible bool, source visibility.Source) (visibility.Transition, error)
}

// Status is a snapshot of the monitor for diagnostics.
type Status struct {
	Running     bool
	Phase       Phase
	Settings    Settings
	LastPointer Point
	LastScreen  Size
	LastSample  time.Time
	Unsupported bool
}

// Monitor polls the pointer on a fixed cadence and drives a Tracker.
type Monitor struct {
	mu     sync.RWMutex
	logger *slog.Logger

	sampler  Sampler
	flag     *visibility.Flag
	commands Commander
	tracker  *Tracker

	// Flag write count seen after the last poll. A different value means
	// another writer touched the flag and the timers are stale.
	lastWrites uint64

	sampleTimeout time.Duration

	lastPointer Point
	lastScreen  Size
	lastSample  time.Time
	unsupported bool

	// Control channels
	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewMonitor creates a monitor. It does not poll until Start is called.
func NewMonitor(sampler Sampler, flag *visibility.Flag, commands Commander, settings Settings, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger:        logger,
		sampler:       sampler,
		flag:          flag,
		commands:      commands,
		tracker:       NewTracker(settings),
		lastWrites:    flag.Writes(),
		sampleTimeout: DefaultSampleTimeout,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// SetSampleTimeout sets the per-sample query timeout.
func (m *Monitor) SetSampleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleTimeout = timeout
}

// Settings returns the active settings.
func (m *Monitor) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracker.Settings()
}

// UpdateSettings swaps the settings. A running loop picks up a new poll
// interval on its next tick.
func (m *Monitor) UpdateSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.tracker.SetSettings(settings)
	m.mu.Unlock()

	m.logger.Debug("hot zone settings updated",
		"zone_width", settings.ZoneWidth,
		"zone_height", settings.ZoneHeight,
		"show_delay", settings.ShowDelay,
		"hide_delay", settings.HideDelay,
		"poll_interval", settings.PollInterval,
	)
	return nil
}

// Status returns a snapshot of the monitor state.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Running:     m.running,
		Phase:       m.tracker.Phase(m.flag.Visible()),
		Settings:    m.tracker.Settings(),
		LastPointer: m.lastPointer,
		LastScreen:  m.lastScreen,
		LastSample:  m.lastSample,
		Unsupported: m.unsupported,
	}
}

// Start begins polling in a background goroutine.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	interval := m.tracker.Settings().PollInterval
	m.mu.Unlock()

	go m.pollLoop(ctx, interval)

	m.logger.Debug("hot zone monitor started", "interval", interval)
	return nil
}

// Stop halts polling and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	<-m.doneCh
	m.logger.Debug("hot zone monitor stopped")
}

// Running reports whether the poll loop is active.
func (m *Monitor) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Monitor) pollLoop(ctx context.Context, interval time.Duration) {
	defer close(m.doneCh)
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case now := <-ticker.C:
			m.Poll(ctx, now)

			if next := m.Settings().PollInterval; next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// Poll takes one sample and applies the resulting decision. It is exported
// so callers can drive the monitor with their own clock.
func (m *Monitor) Poll(ctx context.Context, now time.Time) Decision {
	m.mu.RLock()
	timeout := m.sampleTimeout
	m.mu.RUnlock()

	pointer, screen, err := m.sample(ctx, timeout)
	if err != nil {
		m.sampleFailed(err)
		return DecisionNone
	}

	m.mu.Lock()
	m.lastPointer = pointer
	m.lastScreen = screen
	m.lastSample = now
	m.unsupported = false

	if writes := m.flag.Writes(); writes != m.lastWrites {
		// Someone else showed or hid the popup; start counting from here.
		m.tracker.Reset()
		m.lastWrites = writes
	}
	decision := m.tracker.Step(m.flag.Visible(), pointer, screen, now)
	m.mu.Unlock()

	if decision == DecisionNone {
		return decision
	}

	t, err := m.commands.Apply(decision == DecisionShow, visibility.SourceHotzone)
	if err != nil {
		m.logger.Warn("failed to apply hot zone transition", "decision", decision, "error", err)
	}

	m.logger.Debug("hot zone transition",
		"decision", decision,
		"x", pointer.X,
		"y", pointer.Y,
		"screen_width", screen.Width,
	)

	// Only our own write is absorbed. Anything written after it still
	// differs on the next poll and resets the tracker.
	if t.Writes != 0 {
		m.mu.Lock()
		m.lastWrites = t.Writes
		m.mu.Unlock()
	}

	return decision
}

func (m *Monitor) sample(ctx context.Context, timeout time.Duration) (Point, Size, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pointer, err := m.sampler.CursorPosition(ctx)
	if err != nil {
		return Point{}, Size{}, err
	}
	screen, err := m.sampler.ScreenSize(ctx)
	if err != nil {
		return Point{}, Size{}, err
	}
	return pointer, screen, nil
}

func (m *Monitor) sampleFailed(err error) {
	if !errors.Is(err, ErrUnsupported) {
		m.logger.Debug("pointer sample failed, skipping tick", "error", err)
		return
	}

	m.mu.Lock()
	first := !m.unsupported
	m.unsupported = true
	m.mu.Unlock()

	if first {
		m.logger.Info("pointer query unavailable, hot zone inactive", "error", err)
	}
}
