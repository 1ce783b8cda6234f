package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages.
	NotificationLevelWarning
	// NotificationLevelError is for error messages.
	NotificationLevelError
)

// String returns the string representation of NotificationLevel.
func (l NotificationLevel) String() string {
	switch l {
	case NotificationLevelInfo:
		return "info"
	case NotificationLevelWarning:
		return "warning"
	case NotificationLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// icon returns the freedesktop icon name for the level.
func (l NotificationLevel) icon() string {
	switch l {
	case NotificationLevelWarning:
		return "dialog-warning"
	case NotificationLevelError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}

// SendFunc delivers one desktop notification.
type SendFunc func(title, body, icon string) error

func beeepSend(title, body, icon string) error {
	return beeep.Notify(title, body, icon)
}

// Notifier sends desktop notifications about joodockd events.
// Repeats of the same key within the minimum interval are dropped.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	send   SendFunc

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
	now     func() time.Time
}

// NewNotifier creates a notifier that delivers through beeep.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	beeep.AppName = "joodock"
	return &Notifier{
		logger:         logger,
		send:           beeepSend,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
		now:            time.Now,
	}
}

// SetSendFunc replaces the delivery function.
func (n *Notifier) SetSendFunc(fn SendFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = fn
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the
// same key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification unless it is disabled or rate limited.
// It reports whether the notification was handed to the send function.
func (n *Notifier) Notify(key, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled || n.send == nil {
		n.mu.Unlock()
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return false
	}
	n.lastNotifyTime[key] = now
	send := n.send
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)
	if err := send(summary, body, level.icon()); err != nil {
		n.logger.Warn("failed to send notification", "key", key, "error", err)
	}
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"joodock configuration has been reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError reports a config file that failed to load.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyThemeReloaded reports a theme reload.
func (n *Notifier) NotifyThemeReloaded(themeName string) {
	n.Notify(
		"theme-reload",
		"Theme Reloaded",
		"Theme '"+themeName+"' has been reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyPointerUnavailable reports that the hot zone cannot track the pointer.
func (n *Notifier) NotifyPointerUnavailable() {
	n.Notify(
		"pointer-unavailable",
		"Hot Zone Inactive",
		"No pointer backend is available; use 'joodock toggle' to open the dock.",
		NotificationLevelWarning,
	)
}
