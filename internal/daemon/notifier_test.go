package daemon

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	title, body, icon string
}

func newTestNotifier() (*Notifier, *[]sent, *time.Time) {
	n := NewNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var got []sent
	n.SetSendFunc(func(title, body, icon string) error {
		got = append(got, sent{title, body, icon})
		return nil
	})
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	n.now = func() time.Time { return now }
	return n, &got, &now
}

func TestNotifier_RateLimit(t *testing.T) {
	n, got, now := newTestNotifier()

	assert.True(t, n.Notify("k", "A", "a", NotificationLevelInfo))
	assert.False(t, n.Notify("k", "A", "a", NotificationLevelInfo))

	// Different keys are limited independently.
	assert.True(t, n.Notify("other", "B", "b", NotificationLevelInfo))

	*now = now.Add(5 * time.Second)
	assert.True(t, n.Notify("k", "A", "a", NotificationLevelInfo))

	assert.Len(t, *got, 3)
}

func TestNotifier_Disabled(t *testing.T) {
	n, got, _ := newTestNotifier()
	n.SetEnabled(false)

	assert.False(t, n.Notify("k", "A", "a", NotificationLevelInfo))
	assert.Empty(t, *got)
}

func TestNotifier_MinInterval(t *testing.T) {
	n, _, now := newTestNotifier()
	n.SetMinInterval(time.Minute)

	require.True(t, n.Notify("k", "A", "a", NotificationLevelInfo))
	*now = now.Add(30 * time.Second)
	assert.False(t, n.Notify("k", "A", "a", NotificationLevelInfo))
}

func TestNotifier_SendErrorStillCounts(t *testing.T) {
	n, _, _ := newTestNotifier()
	n.SetSendFunc(func(title, body, icon string) error {
		return errors.New("no notification daemon")
	})

	assert.True(t, n.Notify("k", "A", "a", NotificationLevelError))
	assert.False(t, n.Notify("k", "A", "a", NotificationLevelError))
}

func TestNotifier_Helpers(t *testing.T) {
	n, got, _ := newTestNotifier()

	n.NotifyConfigReloaded()
	n.NotifyConfigError(errors.New("line 3: bad duration"))
	n.NotifyThemeReloaded("compact")
	n.NotifyPointerUnavailable()

	require.Len(t, *got, 4)
	assert.Equal(t, "Configuration Reloaded", (*got)[0].title)
	assert.Equal(t, "dialog-information", (*got)[0].icon)
	assert.Contains(t, (*got)[1].body, "bad duration")
	assert.Equal(t, "dialog-warning", (*got)[1].icon)
	assert.Contains(t, (*got)[2].body, "compact")
	assert.Equal(t, "Hot Zone Inactive", (*got)[3].title)
}

func TestNotificationLevelString(t *testing.T) {
	assert.Equal(t, "info", NotificationLevelInfo.String())
	assert.Equal(t, "warning", NotificationLevelWarning.String())
	assert.Equal(t, "error", NotificationLevelError.String())
	assert.Equal(t, "unknown", NotificationLevel(7).String())
	assert.Equal(t, "dialog-error", NotificationLevelError.icon())
}
