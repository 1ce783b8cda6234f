// Package display implements the GTK4 layer-shell popup that lists the dock
// entries, plus a headless window used when no display is wanted.
package display
