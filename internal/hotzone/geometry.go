package hotzone

import "fmt"

// Popup geometry. These match the window built by the display package and
// are not configurable.
const (
	PopupWidth     = 320 // Popup width in pixels
	PopupHeight    = 450 // Popup height in pixels
	PopupTopMargin = 5   // Gap between the top screen edge and the popup
	SafeAreaMargin = 30  // Extra pixels around the popup that keep it open
)

// Point is a pointer position in screen pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a screen size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect is an axis-aligned rectangle in screen pixels. All four edges are
// inclusive.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Expand returns r grown by margin pixels on every side.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of r.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// String formats r as "[left,top]-[right,bottom]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// HoverZone returns the zone that opens the popup: zoneWidth x zoneHeight,
// centred horizontally and touching the top edge of the screen.
func HoverZone(screen Size, zoneWidth, zoneHeight int) Rect {
	left := (screen.Width - zoneWidth) / 2
	return Rect{
		Left:   left,
		Top:    0,
		Right:  left + zoneWidth,
		Bottom: zoneHeight,
	}
}

// PopupBounds returns where the popup sits on screen.
func PopupBounds(screen Size) Rect {
	left := (screen.Width - PopupWidth) / 2
	return Rect{
		Left:   left,
		Top:    PopupTopMargin,
		Right:  left + PopupWidth,
		Bottom: PopupTopMargin + PopupHeight,
	}
}

// SafeArea returns the popup bounds expanded by SafeAreaMargin on all sides,
// clipped at the top edge of the screen. Negative y belongs to a monitor
// stacked above, not to the popup.
func SafeArea(screen Size) Rect {
	r := PopupBounds(screen).Expand(SafeAreaMargin)
	r.Top = max(r.Top, 0)
	return r
}

// Zones bundles the regions derived from one screen size.
type Zones struct {
	Screen Size `json:"screen" yaml:"screen"`
	Hover  Rect `json:"hover_zone" yaml:"hover_zone"`
	Popup  Rect `json:"popup" yaml:"popup"`
	Safe   Rect `json:"safe_area" yaml:"safe_area"`
}

// ComputeZones derives all regions for the given screen and settings.
func ComputeZones(screen Size, s Settings) Zones {
	return Zones{
		Screen: screen,
		Hover:  HoverZone(screen, s.ZoneWidth, s.ZoneHeight),
		Popup:  PopupBounds(screen),
		Safe:   SafeArea(screen),
	}
}
