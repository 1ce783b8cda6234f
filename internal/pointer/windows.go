//go:build windows

package pointer

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

const (
	smCxScreen = 0
	smCyScreen = 1
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
)

type point struct {
	X, Y int32
}

// Windows samples the pointer through user32.
type Windows struct{}

func newWindows() (hotzone.Sampler, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32: %w", err)
	}
	if err := procGetCursorPos.Find(); err != nil {
		return nil, fmt.Errorf("GetCursorPos unavailable: %w", err)
	}
	return Windows{}, nil
}

// CursorPosition implements hotzone.Sampler.
func (Windows) CursorPosition(context.Context) (hotzone.Point, error) {
	var pt point
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r == 0 {
		return hotzone.Point{}, fmt.Errorf("GetCursorPos failed: %w", err)
	}
	return hotzone.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

// ScreenSize implements hotzone.Sampler.
func (Windows) ScreenSize(context.Context) (hotzone.Size, error) {
	cx, _, _ := procGetSystemMetrics.Call(smCxScreen)
	cy, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if cx == 0 || cy == 0 {
		return hotzone.Size{}, fmt.Errorf("GetSystemMetrics returned no primary screen")
	}
	return hotzone.Size{Width: int(cx), Height: int(cy)}, nil
}
