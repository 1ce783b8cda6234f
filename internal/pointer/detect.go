package pointer

import (
	"os"
	"runtime"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// Detect picks a sampler for the current session. Windows uses user32, a
// Hyprland session uses hyprctl, an X11 session with xdotool uses xdotool.
// Anything else gets the inert sampler.
func Detect() (hotzone.Sampler, string) {
	if runtime.GOOS == "windows" {
		if s, err := newWindows(); err == nil {
			return s, BackendWindows
		}
		return Inert{}, BackendNone
	}

	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" && hasTool("hyprctl") {
		return NewHyprland(), BackendHyprland
	}
	if os.Getenv("DISPLAY") != "" && hasTool("xdotool") && hasTool("xdpyinfo") {
		return NewX11(), BackendX11
	}
	return Inert{}, BackendNone
}

func hasTool(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
