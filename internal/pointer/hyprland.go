package pointer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// Hyprland samples the pointer through hyprctl.
type Hyprland struct {
	run runner
}

// NewHyprland creates a hyprctl-backed sampler.
func NewHyprland() *Hyprland {
	return &Hyprland{run: execRunner}
}

// CursorPosition implements hotzone.Sampler.
func (h *Hyprland) CursorPosition(ctx context.Context) (hotzone.Point, error) {
	out, err := h.run(ctx, "hyprctl", "cursorpos")
	if err != nil {
		return hotzone.Point{}, err
	}
	return parseCursorPos(out)
}

// ScreenSize implements hotzone.Sampler.
func (h *Hyprland) ScreenSize(ctx context.Context) (hotzone.Size, error) {
	out, err := h.run(ctx, "hyprctl", "-j", "monitors")
	if err != nil {
		return hotzone.Size{}, err
	}
	return parseMonitors(out)
}

// parseCursorPos parses "1234, 567".
func parseCursorPos(out []byte) (hotzone.Point, error) {
	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(parts) != 2 {
		return hotzone.Point{}, fmt.Errorf("unexpected cursorpos output %q", strings.TrimSpace(string(out)))
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return hotzone.Point{}, fmt.Errorf("invalid cursor x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return hotzone.Point{}, fmt.Errorf("invalid cursor y: %w", err)
	}
	return hotzone.Point{X: x, Y: y}, nil
}

type hyprMonitor struct {
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Scale     float64 `json:"scale"`
	Transform int     `json:"transform"`
	Focused   bool    `json:"focused"`
}

// parseMonitors picks the monitor at the layout origin, falling back to the
// first one, and returns its size in layout pixels.
func parseMonitors(out []byte) (hotzone.Size, error) {
	var monitors []hyprMonitor
	if err := json.Unmarshal(out, &monitors); err != nil {
		return hotzone.Size{}, fmt.Errorf("failed to parse monitors: %w", err)
	}
	if len(monitors) == 0 {
		return hotzone.Size{}, fmt.Errorf("no monitors reported")
	}

	primary := monitors[0]
	for _, m := range monitors {
		if m.X == 0 && m.Y == 0 {
			primary = m
			break
		}
	}

	w, h := primary.Width, primary.Height
	// Odd transforms rotate by 90 or 270 degrees.
	if primary.Transform%2 == 1 {
		w, h = h, w
	}
	if primary.Scale > 0 {
		w = int(float64(w) / primary.Scale)
		h = int(float64(h) / primary.Scale)
	}
	if w <= 0 || h <= 0 {
		return hotzone.Size{}, fmt.Errorf("monitor %s has invalid size %dx%d", primary.Name, w, h)
	}
	return hotzone.Size{Width: w, Height: h}, nil
}
