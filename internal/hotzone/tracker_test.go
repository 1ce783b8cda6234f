package hotzone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testScreen  = Size{Width: 1920, Height: 1080}
	inZone      = Point{X: 960, Y: 25}
	inPopup     = Point{X: 960, Y: 300}
	inMargin    = Point{X: 1140, Y: 300}
	outsideAll  = Point{X: 960, Y: 500}
	testTick    = 100 * time.Millisecond
	testEpoch   = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tickAt      = func(i int) time.Time { return testEpoch.Add(time.Duration(i) * testTick) }
	defaultTrkr = func() *Tracker { return NewTracker(DefaultSettings()) }
)

// run feeds the trace into the tracker, applying decisions to a local flag,
// and returns the tick indices that produced each decision.
func run(tr *Tracker, visible bool, trace []Point) (shows, hides []int, final bool) {
	for i, p := range trace {
		switch tr.Step(visible, p, testScreen, tickAt(i)) {
		case DecisionShow:
			shows = append(shows, i)
			visible = true
		case DecisionHide:
			hides = append(hides, i)
			visible = false
		}
	}
	return shows, hides, visible
}

func repeat(p Point, n int) []Point {
	out := make([]Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 300, s.ZoneWidth)
	assert.Equal(t, 50, s.ZoneHeight)
	assert.Equal(t, 300*time.Millisecond, s.ShowDelay)
	assert.Equal(t, 2*time.Second, s.HideDelay)
	assert.Equal(t, 100*time.Millisecond, s.PollInterval)
	require.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.ZoneWidth = 0 }},
		{"negative height", func(s *Settings) { s.ZoneHeight = -1 }},
		{"negative show delay", func(s *Settings) { s.ShowDelay = -time.Millisecond }},
		{"negative hide delay", func(s *Settings) { s.HideDelay = -time.Millisecond }},
		{"zero poll interval", func(s *Settings) { s.PollInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestTracker_ShowAfterDwell(t *testing.T) {
	tr := defaultTrkr()

	shows, hides, visible := run(tr, false, repeat(inZone, 4))

	// Armed at tick 0, 300ms elapsed at tick 3.
	assert.Equal(t, []int{3}, shows)
	assert.Empty(t, hides)
	assert.True(t, visible)
}

func TestTracker_ShowExactlyOnce(t *testing.T) {
	tr := defaultTrkr()

	shows, _, visible := run(tr, false, repeat(inZone, 30))

	assert.Equal(t, []int{3}, shows)
	assert.True(t, visible)
}

func TestTracker_LeavingBeforeDelayResetsShow(t *testing.T) {
	tr := defaultTrkr()

	trace := []Point{inZone, inZone, inZone, outsideAll, inZone, inZone, inZone, inZone}
	shows, _, _ := run(tr, false, trace)

	// Fresh entry at tick 4 needs the full delay again.
	assert.Equal(t, []int{7}, shows)
}

func TestTracker_NoShowOutsideZone(t *testing.T) {
	tr := defaultTrkr()

	shows, hides, visible := run(tr, false, repeat(outsideAll, 50))

	assert.Empty(t, shows)
	assert.Empty(t, hides)
	assert.False(t, visible)
	assert.Equal(t, PhaseHidden, tr.Phase(false))
}

func TestTracker_HideAfterDwellOutside(t *testing.T) {
	tr := defaultTrkr()

	shows, hides, visible := run(tr, true, repeat(outsideAll, 21))

	// Armed at tick 0, 2000ms elapsed at tick 20.
	assert.Empty(t, shows)
	assert.Equal(t, []int{20}, hides)
	assert.False(t, visible)
}

func TestTracker_NoHideBeforeDelay(t *testing.T) {
	tr := defaultTrkr()

	_, hides, visible := run(tr, true, repeat(outsideAll, 20))

	assert.Empty(t, hides)
	assert.True(t, visible)
	assert.Equal(t, PhaseArmedToHide, tr.Phase(true))
}

func TestTracker_OscillationResetsHide(t *testing.T) {
	tr := defaultTrkr()

	trace := repeat(outsideAll, 30)
	trace[15] = inZone

	_, hides, visible := run(tr, true, trace)

	// Re-armed at tick 16, so the earliest hide is tick 36.
	assert.Empty(t, hides)
	assert.True(t, visible)

	trace = append(trace, repeat(outsideAll, 10)...)
	tr = defaultTrkr()
	_, hides, _ = run(tr, true, trace)
	assert.Equal(t, []int{36}, hides)
}

func TestTracker_SafeAreaKeepsPopupOpen(t *testing.T) {
	tests := []struct {
		name string
		p    Point
	}{
		{"hover zone", inZone},
		{"inside popup", inPopup},
		{"inside margin", inMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := defaultTrkr()
			_, hides, visible := run(tr, true, repeat(tt.p, 40))
			assert.Empty(t, hides)
			assert.True(t, visible)
			assert.Equal(t, PhaseVisible, tr.Phase(true))
		})
	}
}

func TestTracker_MonitorAboveIsOutside(t *testing.T) {
	tr := defaultTrkr()

	// Above the top edge, inside the popup's expanded columns.
	_, hides, visible := run(tr, true, repeat(Point{X: 960, Y: -10}, 21))
	assert.Equal(t, []int{20}, hides)
	assert.False(t, visible)
}

func TestTracker_SafeAreaOnlyWhileVisible(t *testing.T) {
	tr := defaultTrkr()

	// The popup area does not open a hidden popup.
	shows, _, visible := run(tr, false, repeat(inPopup, 20))
	assert.Empty(t, shows)
	assert.False(t, visible)
}

func TestTracker_ShowTimerClearedWhileVisible(t *testing.T) {
	tr := defaultTrkr()

	assert.Equal(t, DecisionNone, tr.Step(false, inZone, testScreen, tickAt(0)))
	assert.Equal(t, PhaseArmedToShow, tr.Phase(false))
	assert.False(t, tr.ShowArmedAt().IsZero())

	// Popup shown by someone else.
	assert.Equal(t, DecisionNone, tr.Step(true, inZone, testScreen, tickAt(1)))
	assert.True(t, tr.ShowArmedAt().IsZero())
	assert.True(t, tr.HideArmedAt().IsZero())
}

func TestTracker_HideTimerClearedWhileHidden(t *testing.T) {
	tr := defaultTrkr()

	assert.Equal(t, DecisionNone, tr.Step(true, outsideAll, testScreen, tickAt(0)))
	assert.Equal(t, testEpoch, tr.HideArmedAt())

	assert.Equal(t, DecisionNone, tr.Step(false, outsideAll, testScreen, tickAt(1)))
	assert.True(t, tr.HideArmedAt().IsZero())
	assert.Equal(t, PhaseHidden, tr.Phase(false))
}

func TestTracker_Reset(t *testing.T) {
	tr := defaultTrkr()

	for i := range 19 {
		require.Equal(t, DecisionNone, tr.Step(true, outsideAll, testScreen, tickAt(i)))
	}
	tr.Reset()

	// Counting restarts from the first tick after the reset.
	assert.Equal(t, DecisionNone, tr.Step(true, outsideAll, testScreen, tickAt(19)))
	assert.Equal(t, DecisionNone, tr.Step(true, outsideAll, testScreen, tickAt(20)))
	assert.Equal(t, DecisionHide, tr.Step(true, outsideAll, testScreen, tickAt(39)))
}

func TestTracker_ScreenChangeBetweenSamples(t *testing.T) {
	tr := defaultTrkr()
	p := Point{X: 1400, Y: 10}

	// Not in the zone on a 1920 screen.
	assert.Equal(t, DecisionNone, tr.Step(false, p, testScreen, tickAt(0)))
	assert.Equal(t, PhaseHidden, tr.Phase(false))

	// In the zone on a 2560 screen: [1130,0]-[1430,50].
	wide := Size{Width: 2560, Height: 1440}
	assert.Equal(t, DecisionNone, tr.Step(false, p, wide, tickAt(1)))
	assert.Equal(t, PhaseArmedToShow, tr.Phase(false))
}

func TestTracker_ZeroShowDelay(t *testing.T) {
	s := DefaultSettings()
	s.ShowDelay = 0
	tr := NewTracker(s)

	// First sample arms, second fires.
	assert.Equal(t, DecisionNone, tr.Step(false, inZone, testScreen, tickAt(0)))
	assert.Equal(t, DecisionShow, tr.Step(false, inZone, testScreen, tickAt(1)))
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d        Decision
		expected string
	}{
		{DecisionNone, "none"},
		{DecisionShow, "show"},
		{DecisionHide, "hide"},
		{Decision(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.d.String())
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "hidden", PhaseHidden.String())
	assert.Equal(t, "armed-to-show", PhaseArmedToShow.String())
	assert.Equal(t, "visible", PhaseVisible.String())
	assert.Equal(t, "armed-to-hide", PhaseArmedToHide.String())
	assert.Equal(t, "unknown", Phase(9).String())
}
