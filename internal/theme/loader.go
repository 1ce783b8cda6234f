package theme

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader owns the GTK CSS provider for the popup. Every method must run on
// the GTK main thread.
type Loader struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	resolver *Resolver
	provider *gtk.CSSProvider
	theme    *Theme
	applied  bool
}

// NewLoader creates a loader resolving against the user themes directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		resolver: NewResolver(),
		provider: gtk.NewCSSProvider(),
	}
}

// Load resolves a theme by name and loads it into the provider.
func (l *Loader) Load(name string) error {
	t, err := l.resolver.Resolve(name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.theme = t
	l.provider.LoadFromString(t.CSS)
	l.mu.Unlock()

	switch {
	case t.Fallback:
		l.logger.Warn("theme not found, using default", "theme", name)
	case t.Bundled:
		l.logger.Info("loaded bundled theme", "name", t.Name)
	default:
		l.logger.Info("loaded user theme", "name", t.Name, "path", t.Path)
	}
	return nil
}

// Apply attaches the provider to a display. A nil display means the default.
func (l *Loader) Apply(display *gdk.Display) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.applied {
		return
	}
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.applied = true
}

// Reload re-resolves the current theme if changed names it or one of its
// partials. It reports whether the provider was reloaded.
func (l *Loader) Reload(changed string) (bool, error) {
	l.mu.RLock()
	current := DefaultThemeName
	if l.theme != nil {
		current = l.theme.Name
	}
	l.mu.RUnlock()

	if changed != current && !strings.HasPrefix(changed, "_") {
		return false, nil
	}
	if err := l.Load(current); err != nil {
		return false, err
	}
	return true, nil
}

// Current returns the loaded theme, or nil before the first Load.
func (l *Loader) Current() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// SetColorScheme forces the libadwaita color scheme. "system" follows the
// desktop preference; anything else unknown is treated the same way.
func SetColorScheme(scheme string) {
	manager := adw.StyleManagerGetDefault()
	switch scheme {
	case "light":
		manager.SetColorScheme(adw.ColorSchemeForceLight)
	case "dark":
		manager.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		manager.SetColorScheme(adw.ColorSchemeDefault)
	}
}

// IsDark reports whether libadwaita is currently rendering dark.
func IsDark() bool {
	return adw.StyleManagerGetDefault().Dark()
}
