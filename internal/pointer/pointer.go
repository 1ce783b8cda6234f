// Package pointer provides hotzone.Sampler implementations for the
// compositors and platforms joodock runs on. Linux backends shell out to the
// compositor's own tools; Windows calls user32 directly.
package pointer

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// ErrUnsupported is returned when no pointer backend is usable.
var ErrUnsupported = hotzone.ErrUnsupported

// Backend names accepted by New.
const (
	BackendAuto     = "auto"
	BackendHyprland = "hyprland"
	BackendX11      = "x11"
	BackendWindows  = "windows"
	BackendNone     = "none"
)

// runner executes a command and returns its stdout.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// Inert is the fallback sampler. Every query fails with ErrUnsupported.
type Inert struct{}

// CursorPosition implements hotzone.Sampler.
func (Inert) CursorPosition(context.Context) (hotzone.Point, error) {
	return hotzone.Point{}, ErrUnsupported
}

// ScreenSize implements hotzone.Sampler.
func (Inert) ScreenSize(context.Context) (hotzone.Size, error) {
	return hotzone.Size{}, ErrUnsupported
}

// New returns the sampler for the named backend. BackendAuto runs Detect.
func New(backend string) (hotzone.Sampler, string, error) {
	switch backend {
	case "", BackendAuto:
		s, name := Detect()
		return s, name, nil
	case BackendHyprland:
		return NewHyprland(), BackendHyprland, nil
	case BackendX11:
		return NewX11(), BackendX11, nil
	case BackendWindows:
		s, err := newWindows()
		if err != nil {
			return nil, "", err
		}
		return s, BackendWindows, nil
	case BackendNone:
		return Inert{}, BackendNone, nil
	default:
		return nil, "", fmt.Errorf("unknown pointer backend %q", backend)
	}
}
