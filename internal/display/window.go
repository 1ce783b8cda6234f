package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"

	"github.com/jmylchreest/joodock/internal/config"
	"github.com/jmylchreest/joodock/internal/hotzone"
	"github.com/jmylchreest/joodock/internal/theme"
)

// PopupWindow is the GTK popup listing the dock entries. It satisfies
// visibility.Window. Show, Hide and Focus may be called from any goroutine
// except the GTK main thread; they block until the main loop ran them.
type PopupWindow struct {
	mu     sync.Mutex
	logger *slog.Logger

	dispatch Dispatcher
	timeout  time.Duration

	window *gtk.Window
	box    *gtk.Box
	list   *gtk.ListBox
	empty  *gtk.Label

	entries         []config.Entry
	colorScheme     string
	hideOnFocusLost bool
	layerShell      bool
	shown           bool

	onActivate  func(entry config.Entry)
	onFocusLost func()
	onEscape    func()
}

// NewPopupWindow builds the popup. It must be called on the GTK main thread,
// after the application has activated.
func NewPopupWindow(app *gtk.Application, cfg *config.Config, logger *slog.Logger) *PopupWindow {
	if logger == nil {
		logger = slog.Default()
	}

	w := &PopupWindow{
		logger:          logger,
		dispatch:        IdleDispatcher,
		timeout:         DefaultDispatchTimeout,
		colorScheme:     cfg.Popup.ColorScheme,
		hideOnFocusLost: cfg.Popup.HideOnFocusLost,
	}

	w.window = gtk.NewWindow()
	w.window.SetApplication(app)
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.SetTitle("joodock")
	w.window.AddCSSClass("joodock")
	w.window.SetDefaultSize(hotzone.PopupWidth, hotzone.PopupHeight)
	w.window.SetSizeRequest(hotzone.PopupWidth, hotzone.PopupHeight)

	w.layerShell = layershell.IsSupported()
	if w.layerShell {
		layershell.InitForWindow(w.window)
		layershell.SetLayer(w.window, layershell.LayerShellLayerTop)
		layershell.SetExclusiveZone(w.window, 0)
		layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeOnDemand)
		layershell.SetNamespace(w.window, "joodock")

		// Top edge only, so the compositor centres the popup horizontally.
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, false)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, false)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, false)
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, hotzone.PopupTopMargin)
	} else {
		logger.Warn("layer-shell not supported by this compositor, using a regular window")
	}

	w.buildUI()
	w.setEntries(cfg.Entries)
	w.connectSignals()

	return w
}

func (w *PopupWindow) buildUI() {
	w.box = gtk.NewBox(gtk.OrientationVertical, 4)
	w.box.AddCSSClass("joodock-popup")

	title := gtk.NewLabel("joodock")
	title.AddCSSClass("joodock-title")
	title.SetXAlign(0)
	w.box.Append(title)

	w.list = gtk.NewListBox()
	w.list.AddCSSClass("joodock-entries")
	w.list.SetSelectionMode(gtk.SelectionNone)
	w.list.SetActivateOnSingleClick(true)

	scroller := gtk.NewScrolledWindow()
	scroller.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scroller.SetVExpand(true)
	scroller.SetChild(w.list)
	w.box.Append(scroller)

	w.empty = gtk.NewLabel("No entries configured")
	w.empty.AddCSSClass("joodock-empty")
	w.empty.SetVisible(false)
	w.box.Append(w.empty)

	w.window.SetChild(w.box)
}

// setEntries rebuilds the entry rows. Main thread only.
func (w *PopupWindow) setEntries(entries []config.Entry) {
	for child := w.list.FirstChild(); child != nil; child = w.list.FirstChild() {
		w.list.Remove(child)
	}

	for _, e := range entries {
		name := gtk.NewLabel(e.DisplayName())
		name.AddCSSClass("joodock-entry-name")
		name.SetXAlign(0)
		name.SetEllipsize(3) // PANGO_ELLIPSIZE_END

		path := gtk.NewLabel(e.Path)
		path.AddCSSClass("joodock-entry-path")
		path.SetXAlign(0)
		path.SetEllipsize(2) // PANGO_ELLIPSIZE_MIDDLE

		content := gtk.NewBox(gtk.OrientationVertical, 0)
		content.Append(name)
		content.Append(path)

		row := gtk.NewListBoxRow()
		row.AddCSSClass("joodock-entry")
		row.SetActivatable(true)
		row.SetTooltipText(e.Path)
		row.SetChild(content)
		w.list.Append(row)
	}

	w.empty.SetVisible(len(entries) == 0)

	w.mu.Lock()
	w.entries = append([]config.Entry(nil), entries...)
	w.mu.Unlock()
}

func (w *PopupWindow) connectSignals() {
	// Row callbacks run on the GTK thread; the handlers call back into the
	// visibility controller, which waits on this thread. Hand them off.
	w.list.ConnectRowActivated(func(row *gtk.ListBoxRow) {
		w.mu.Lock()
		idx := row.Index()
		var entry config.Entry
		ok := idx >= 0 && idx < len(w.entries)
		if ok {
			entry = w.entries[idx]
		}
		cb := w.onActivate
		w.mu.Unlock()

		if ok && cb != nil {
			go cb(entry)
		}
	})

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval != gdk.KEY_Escape {
			return false
		}
		w.mu.Lock()
		cb := w.onEscape
		w.mu.Unlock()
		if cb != nil {
			go cb()
		}
		return true
	})
	w.window.AddController(keys)

	w.window.NotifyProperty("is-active", func() {
		if w.window.IsActive() {
			return
		}
		w.mu.Lock()
		fire := w.shown && w.hideOnFocusLost
		cb := w.onFocusLost
		w.mu.Unlock()
		if fire && cb != nil {
			go cb()
		}
	})
}

// SetActivateCallback sets the callback for a clicked or activated entry.
func (w *PopupWindow) SetActivateCallback(cb func(entry config.Entry)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onActivate = cb
}

// SetFocusLostCallback sets the callback for the popup losing keyboard focus
// while shown.
func (w *PopupWindow) SetFocusLostCallback(cb func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFocusLost = cb
}

// SetEscapeCallback sets the callback for Escape pressed in the popup.
func (w *PopupWindow) SetEscapeCallback(cb func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onEscape = cb
}

// UpdateConfig applies popup settings and entries from a reloaded config.
// Main thread only.
func (w *PopupWindow) UpdateConfig(cfg *config.Config) {
	w.mu.Lock()
	w.colorScheme = cfg.Popup.ColorScheme
	w.hideOnFocusLost = cfg.Popup.HideOnFocusLost
	w.mu.Unlock()

	w.setEntries(cfg.Entries)
	w.applyColorSchemeClass()
}

func (w *PopupWindow) applyColorSchemeClass() {
	w.mu.Lock()
	scheme := config.ColorScheme(w.colorScheme)
	w.mu.Unlock()

	theme.SetColorScheme(string(scheme))

	class := "light"
	switch scheme {
	case config.ColorSchemeDark:
		class = "dark"
	case config.ColorSchemeLight:
	default:
		if theme.IsDark() {
			class = "dark"
		}
	}

	w.box.RemoveCSSClass("light")
	w.box.RemoveCSSClass("dark")
	w.box.AddCSSClass(class)
}

// Show implements visibility.Window.
func (w *PopupWindow) Show() error {
	return runOnMain(w.dispatch, w.timeout, func() error {
		w.applyColorSchemeClass()
		w.window.SetVisible(true)
		w.mu.Lock()
		w.shown = true
		w.mu.Unlock()
		return nil
	})
}

// Hide implements visibility.Window.
func (w *PopupWindow) Hide() error {
	return runOnMain(w.dispatch, w.timeout, func() error {
		w.mu.Lock()
		w.shown = false
		w.mu.Unlock()
		w.window.SetVisible(false)
		return nil
	})
}

// Focus implements visibility.Window.
func (w *PopupWindow) Focus() error {
	return runOnMain(w.dispatch, w.timeout, func() error {
		if !w.window.IsVisible() {
			return &DisplayError{Message: "cannot focus hidden popup"}
		}
		w.window.Present()
		w.list.GrabFocus()
		return nil
	})
}

// LayerShell reports whether the popup is a layer-shell surface.
func (w *PopupWindow) LayerShell() bool {
	return w.layerShell
}

// Close destroys the window. Main thread only.
func (w *PopupWindow) Close() {
	w.mu.Lock()
	w.shown = false
	w.mu.Unlock()
	w.window.Destroy()
}
