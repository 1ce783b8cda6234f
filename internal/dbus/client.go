package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/joodock/internal/visibility"
)

// Client calls a running joodockd.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens the session bus and checks the daemon is present.
func Connect() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var hasOwner bool
	if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&hasOwner); err != nil {
		return nil, fmt.Errorf("failed to query bus name: %w", err)
	}
	if !hasOwner {
		return nil, ErrDaemonNotRunning
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	return c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
}

// Show asks the daemon to show the popup.
func (c *Client) Show(ctx context.Context, source visibility.Source) error {
	if err := c.call(ctx, "Show", string(source)).Err; err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return nil
}

// Hide asks the daemon to hide the popup.
func (c *Client) Hide(ctx context.Context, source visibility.Source) error {
	if err := c.call(ctx, "Hide", string(source)).Err; err != nil {
		return fmt.Errorf("hide: %w", err)
	}
	return nil
}

// Toggle flips the popup and returns the new visibility.
func (c *Client) Toggle(ctx context.Context, source visibility.Source) (bool, error) {
	var visible bool
	if err := c.call(ctx, "Toggle", string(source)).Store(&visible); err != nil {
		return false, fmt.Errorf("toggle: %w", err)
	}
	return visible, nil
}

// IsVisible returns the daemon's visibility flag.
func (c *Client) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	if err := c.call(ctx, "IsVisible").Store(&visible); err != nil {
		return false, fmt.Errorf("is visible: %w", err)
	}
	return visible, nil
}

// Status returns the flag and the last transition.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var (
		visible bool
		source  string
		at      int64
		id      string
	)
	if err := c.call(ctx, "Status").Store(&visible, &source, &at, &id); err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}
	return statusFromWire(visible, source, at, id), nil
}

// WatchVisibility calls fn for every VisibilityChanged signal until ctx is
// done.
func (c *Client) WatchVisibility(ctx context.Context, fn func(visible bool, source visibility.Source)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember("VisibilityChanged"),
	}
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return fmt.Errorf("failed to add signal match: %w", err)
	}
	defer func() {
		_ = c.conn.RemoveMatchSignal(opts...)
	}()

	ch := make(chan *dbus.Signal, 16)
	c.conn.Signal(ch)
	defer c.conn.RemoveSignal(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return fmt.Errorf("signal channel closed")
			}
			if sig.Name != SignalVisibilityChanged {
				continue
			}
			visible, source, err := parseVisibilityChanged(sig.Body)
			if err != nil {
				continue
			}
			fn(visible, source)
		}
	}
}
