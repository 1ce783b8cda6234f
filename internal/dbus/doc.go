// Package dbus exposes the dock's visibility commands on the session bus.
// The daemon runs a Server; the joodock CLI and bar modules talk to it
// through a Client.
package dbus
