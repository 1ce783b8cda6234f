package dbus

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/joodock/internal/visibility"
)

type stubWindow struct {
	err error
}

func (w *stubWindow) Show() error  { return w.err }
func (w *stubWindow) Hide() error  { return w.err }
func (w *stubWindow) Focus() error { return nil }

func newTestServer() (*Server, *visibility.Controller, *stubWindow) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := &stubWindow{}
	ctrl := visibility.NewController(w, visibility.NewFlag(), logger)
	return NewServer(ctrl, logger), ctrl, w
}

func TestServer_ShowHide(t *testing.T) {
	s, ctrl, _ := newTestServer()

	assert.Nil(t, s.Show("command"))
	assert.True(t, ctrl.Visible())

	visible, derr := s.IsVisible()
	assert.Nil(t, derr)
	assert.True(t, visible)

	assert.Nil(t, s.Hide("command"))
	assert.False(t, ctrl.Visible())
}

func TestServer_Toggle(t *testing.T) {
	s, _, _ := newTestServer()

	visible, derr := s.Toggle("tray")
	assert.Nil(t, derr)
	assert.True(t, visible)

	visible, derr = s.Toggle("tray")
	assert.Nil(t, derr)
	assert.False(t, visible)
}

func TestServer_ToggleReturnsWrittenValue(t *testing.T) {
	s, ctrl, _ := newTestServer()

	// Another writer hides the popup as soon as the toggle has shown it.
	ctrl.OnTransition(func(tr visibility.Transition) {
		if tr.Source == visibility.SourceTray {
			ctrl.Flag().Set(false)
		}
	})

	visible, derr := s.Toggle("tray")
	assert.Nil(t, derr)
	assert.True(t, visible)
	assert.False(t, ctrl.Visible())
}

func TestServer_ToggleStrictFailure(t *testing.T) {
	s, ctrl, w := newTestServer()
	ctrl.SetOptimistic(false)
	w.err = errors.New("no surface")

	visible, derr := s.Toggle("tray")
	require.NotNil(t, derr)
	assert.Equal(t, ErrorWindow, derr.Name)
	assert.False(t, visible)
}

func TestServer_SourceIsParsed(t *testing.T) {
	s, ctrl, _ := newTestServer()

	require.Nil(t, s.Show("tray"))
	last, ok := ctrl.LastTransition()
	require.True(t, ok)
	assert.Equal(t, visibility.SourceTray, last.Source)

	require.Nil(t, s.Hide("some-bar-module"))
	last, _ = ctrl.LastTransition()
	assert.Equal(t, visibility.SourceCommand, last.Source)
}

func TestServer_WindowErrorReturned(t *testing.T) {
	s, ctrl, w := newTestServer()
	w.err = errors.New("no surface")

	derr := s.Show("command")
	require.NotNil(t, derr)
	assert.Equal(t, ErrorWindow, derr.Name)
	assert.Equal(t, []any{"no surface"}, derr.Body)

	// Optimistic by default.
	assert.True(t, ctrl.Visible())
}

func TestServer_Status(t *testing.T) {
	s, _, _ := newTestServer()

	visible, source, at, id, derr := s.Status()
	assert.Nil(t, derr)
	assert.False(t, visible)
	assert.Empty(t, source)
	assert.Zero(t, at)
	assert.Empty(t, id)

	require.Nil(t, s.Show("tray"))

	visible, source, at, id, derr = s.Status()
	assert.Nil(t, derr)
	assert.True(t, visible)
	assert.Equal(t, "tray", source)
	assert.Positive(t, at)
	assert.Len(t, id, 26)
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	s, _, _ := newTestServer()
	assert.NoError(t, s.Stop())
}

func TestServer_EmitWithoutConnection(t *testing.T) {
	s, _, _ := newTestServer()
	assert.Error(t, s.EmitVisibilityChanged(true, visibility.SourceCommand))
}

func TestStatusFromWire(t *testing.T) {
	at := time.UnixMilli(1760000000123)
	st := statusFromWire(true, "hotzone", at.UnixMilli(), "01J0000000000000000000000")

	assert.True(t, st.Visible)
	assert.Equal(t, visibility.SourceHotzone, st.Source)
	assert.True(t, at.Equal(st.At))
	assert.True(t, st.HasTransition())

	empty := statusFromWire(false, "", 0, "")
	assert.True(t, empty.At.IsZero())
	assert.False(t, empty.HasTransition())
}

func TestStatusFromTransition(t *testing.T) {
	at := time.UnixMilli(1760000000000)
	tr := visibility.Transition{ID: "X", Visible: true, Source: visibility.SourceFocusLost, At: at}

	visible, source, ms, id := statusFromTransition(false, tr, true)
	assert.False(t, visible)
	assert.Equal(t, "focus-lost", source)
	assert.Equal(t, at.UnixMilli(), ms)
	assert.Equal(t, "X", id)

	_, source, ms, id = statusFromTransition(true, tr, false)
	assert.Empty(t, source)
	assert.Zero(t, ms)
	assert.Empty(t, id)
}

func TestParseVisibilityChanged(t *testing.T) {
	tests := []struct {
		name    string
		body    []any
		visible bool
		source  visibility.Source
		wantErr bool
	}{
		{"valid", []any{true, "hotzone"}, true, visibility.SourceHotzone, false},
		{"hidden", []any{false, "focus-lost"}, false, visibility.SourceFocusLost, false},
		{"too short", []any{true}, false, "", true},
		{"wrong visible type", []any{"yes", "tray"}, false, "", true},
		{"wrong source type", []any{true, uint32(1)}, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, source, err := parseVisibilityChanged(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.visible, visible)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestIntrospection(t *testing.T) {
	names := map[string]bool{}
	for _, m := range dockMethods() {
		names[m.Name] = true
	}
	for _, want := range []string{"Show", "Hide", "Toggle", "IsVisible", "Status"} {
		assert.True(t, names[want], "missing method %s", want)
	}

	signals := dockSignals()
	require.Len(t, signals, 1)
	assert.Equal(t, "VisibilityChanged", signals[0].Name)
}
