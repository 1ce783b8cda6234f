package pointer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// X11 samples the pointer through xdotool and xdpyinfo.
type X11 struct {
	run runner
}

// NewX11 creates an xdotool-backed sampler.
func NewX11() *X11 {
	return &X11{run: execRunner}
}

// CursorPosition implements hotzone.Sampler.
func (x *X11) CursorPosition(ctx context.Context) (hotzone.Point, error) {
	out, err := x.run(ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return hotzone.Point{}, err
	}
	return parseMouseLocation(out)
}

// ScreenSize implements hotzone.Sampler.
func (x *X11) ScreenSize(ctx context.Context) (hotzone.Size, error) {
	out, err := x.run(ctx, "xdpyinfo")
	if err != nil {
		return hotzone.Size{}, err
	}
	return parseDimensions(out)
}

// parseMouseLocation parses the X= and Y= lines of xdotool --shell output.
func parseMouseLocation(out []byte) (hotzone.Point, error) {
	var p hotzone.Point
	var seenX, seenY bool

	for _, line := range strings.Split(string(out), "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, seenX = n, true
		case "Y":
			p.Y, seenY = n, true
		}
	}

	if !seenX || !seenY {
		return hotzone.Point{}, fmt.Errorf("xdotool output missing X/Y")
	}
	return p, nil
}

// parseDimensions finds "dimensions:    1920x1080 pixels (...)".
func parseDimensions(out []byte) (hotzone.Size, error) {
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "dimensions:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		ws, hs, ok := strings.Cut(fields[1], "x")
		if !ok {
			break
		}
		w, werr := strconv.Atoi(ws)
		h, herr := strconv.Atoi(hs)
		if werr != nil || herr != nil || w <= 0 || h <= 0 {
			break
		}
		return hotzone.Size{Width: w, Height: h}, nil
	}
	return hotzone.Size{}, fmt.Errorf("xdpyinfo output has no screen dimensions")
}
