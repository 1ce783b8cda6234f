// Package visibility owns the shared "popup is shown" state and the single
// code path that commands the popup window. The presence monitor, D-Bus
// commands, tray-style toggles and the window's focus-lost handler all go
// through a Controller so the flag and the window never disagree for longer
// than one command.
package visibility

import "sync/atomic"

// Flag is the authoritative record of whether the popup is visible.
// Writes are unconditional; the last writer wins. Every write bumps a
// counter so pollers can tell that someone else touched the flag.
type Flag struct {
	visible atomic.Bool
	writes  atomic.Uint64
}

// NewFlag returns a flag initialised to hidden.
func NewFlag() *Flag {
	return &Flag{}
}

// Visible reports the current value.
func (f *Flag) Visible() bool {
	return f.visible.Load()
}

// Set stores v and returns the new write count.
func (f *Flag) Set(v bool) uint64 {
	f.visible.Store(v)
	return f.writes.Add(1)
}

// Writes returns how many times Set has been called.
func (f *Flag) Writes() uint64 {
	return f.writes.Load()
}
