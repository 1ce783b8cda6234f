package pointer

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// fakeRunner answers commands from a map keyed by the joined command line.
func fakeRunner(outputs map[string]string) runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		out, ok := outputs[key]
		if !ok {
			return nil, errors.New("command not found: " + key)
		}
		return []byte(out), nil
	}
}

func TestParseCursorPos(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected hotzone.Point
		wantErr  bool
	}{
		{"plain", "960, 25\n", hotzone.Point{X: 960, Y: 25}, false},
		{"no space", "10,20", hotzone.Point{X: 10, Y: 20}, false},
		{"negative", "-5, 3", hotzone.Point{X: -5, Y: 3}, false},
		{"garbage", "error: no socket", hotzone.Point{}, true},
		{"bad number", "a, 2", hotzone.Point{}, true},
		{"empty", "", hotzone.Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseCursorPos([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParseMonitors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected hotzone.Size
		wantErr  bool
	}{
		{
			name:     "single monitor",
			input:    `[{"name":"DP-1","width":1920,"height":1080,"x":0,"y":0,"scale":1.0,"transform":0}]`,
			expected: hotzone.Size{Width: 1920, Height: 1080},
		},
		{
			name: "origin monitor wins",
			input: `[{"name":"HDMI-A-1","width":1280,"height":1024,"x":2560,"y":0,"scale":1},
			         {"name":"DP-1","width":2560,"height":1440,"x":0,"y":0,"scale":1}]`,
			expected: hotzone.Size{Width: 2560, Height: 1440},
		},
		{
			name:     "scaled",
			input:    `[{"name":"eDP-1","width":2880,"height":1800,"x":0,"y":0,"scale":1.5}]`,
			expected: hotzone.Size{Width: 1920, Height: 1200},
		},
		{
			name:     "rotated",
			input:    `[{"name":"DP-2","width":1920,"height":1080,"x":0,"y":0,"scale":1,"transform":1}]`,
			expected: hotzone.Size{Width: 1080, Height: 1920},
		},
		{
			name:     "no origin monitor uses first",
			input:    `[{"name":"DP-3","width":1600,"height":900,"x":100,"y":0,"scale":1}]`,
			expected: hotzone.Size{Width: 1600, Height: 900},
		},
		{name: "empty list", input: `[]`, wantErr: true},
		{name: "invalid json", input: `not json`, wantErr: true},
		{name: "zero size", input: `[{"name":"X","width":0,"height":0}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := parseMonitors([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestParseMouseLocation(t *testing.T) {
	p, err := parseMouseLocation([]byte("X=960\nY=25\nSCREEN=0\nWINDOW=41943046\n"))
	require.NoError(t, err)
	assert.Equal(t, hotzone.Point{X: 960, Y: 25}, p)

	_, err = parseMouseLocation([]byte("SCREEN=0\n"))
	assert.Error(t, err)
}

func TestParseDimensions(t *testing.T) {
	out := `name of display:    :0
version number:    11.0
screen #0:
  dimensions:    1920x1080 pixels (508x285 millimeters)
  resolution:    96x96 dots per inch
`
	s, err := parseDimensions([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, hotzone.Size{Width: 1920, Height: 1080}, s)

	_, err = parseDimensions([]byte("screen #0:\n"))
	assert.Error(t, err)

	_, err = parseDimensions([]byte("  dimensions:    bogus pixels\n"))
	assert.Error(t, err)
}

func TestHyprlandSampler(t *testing.T) {
	h := &Hyprland{run: fakeRunner(map[string]string{
		"hyprctl cursorpos":   "1000, 10",
		"hyprctl -j monitors": `[{"name":"DP-1","width":1920,"height":1080,"x":0,"y":0,"scale":1}]`,
	})}

	p, err := h.CursorPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hotzone.Point{X: 1000, Y: 10}, p)

	s, err := h.ScreenSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hotzone.Size{Width: 1920, Height: 1080}, s)
}

func TestX11Sampler_CommandFailure(t *testing.T) {
	x := &X11{run: fakeRunner(map[string]string{})}

	_, err := x.CursorPosition(context.Background())
	assert.Error(t, err)
	_, err = x.ScreenSize(context.Background())
	assert.Error(t, err)
}

func TestInert(t *testing.T) {
	var s hotzone.Sampler = Inert{}

	_, err := s.CursorPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = s.ScreenSize(context.Background())
	assert.ErrorIs(t, err, hotzone.ErrUnsupported)
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		name    string
	}{
		{BackendHyprland, BackendHyprland},
		{BackendX11, BackendX11},
		{BackendNone, BackendNone},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, name, err := New(tt.backend)
			require.NoError(t, err)
			assert.NotNil(t, s)
			assert.Equal(t, tt.name, name)
		})
	}

	_, _, err := New("wayland-magic")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("detection uses user32 on windows")
	}

	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	available := map[string]bool{}
	lookPath = func(file string) (string, error) {
		if available[file] {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}

	t.Run("hyprland", func(t *testing.T) {
		t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc")
		t.Setenv("DISPLAY", ":0")
		available["hyprctl"] = true
		defer delete(available, "hyprctl")

		_, name := Detect()
		assert.Equal(t, BackendHyprland, name)
	})

	t.Run("x11", func(t *testing.T) {
		t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
		t.Setenv("DISPLAY", ":0")
		available["xdotool"] = true
		available["xdpyinfo"] = true
		defer delete(available, "xdotool")
		defer delete(available, "xdpyinfo")

		_, name := Detect()
		assert.Equal(t, BackendX11, name)
	})

	t.Run("nothing available", func(t *testing.T) {
		t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc")
		t.Setenv("DISPLAY", ":0")

		s, name := Detect()
		assert.Equal(t, BackendNone, name)
		assert.IsType(t, Inert{}, s)
	})
}
