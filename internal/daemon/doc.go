// Package daemon holds the joodockd background services that are not part
// of the hot zone itself: config and theme hot-reload, and desktop
// notifications about the daemon's own state.
package daemon
