package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/joodock/internal/config"
)

// DefaultReloadDelay collapses bursts of editor writes into one reload.
const DefaultReloadDelay = 200 * time.Millisecond

// ConfigWatcher watches the config file and the user themes directory.
// A changed config is loaded and validated before the reload callback runs;
// an invalid one goes to the error callback and the previous config stays
// current.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	configPath string
	themesDir  string
	delay      time.Duration

	currentConfig *config.Config

	onReloadCallback func(newConfig *config.Config)
	onErrorCallback  func(err error)
	onThemeCallback  func(name string)

	watcher *fsnotify.Watcher

	// Control channels
	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewConfigWatcher creates a watcher for configPath. themesDir may be empty.
func NewConfigWatcher(configPath, themesDir string, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if themesDir != "" {
		themesDir = filepath.Clean(themesDir)
	}
	return &ConfigWatcher{
		logger:     logger,
		configPath: filepath.Clean(configPath),
		themesDir:  themesDir,
		delay:      DefaultReloadDelay,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// SetReloadDelay sets how long to wait after the last event before reloading.
func (w *ConfigWatcher) SetReloadDelay(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = delay
}

// SetReloadCallback sets the callback for a successfully reloaded config.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback for a config that failed to load.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// SetThemeCallback sets the callback for a changed theme file. It receives
// the theme name without the .css extension.
func (w *ConfigWatcher) SetThemeCallback(callback func(name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onThemeCallback = callback
}

// Start begins watching.
func (w *ConfigWatcher) Start(ctx context.Context, initialConfig *config.Config) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory containing the file (more reliable for writes)
	dir := filepath.Dir(w.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if w.themesDir != "" {
		if info, err := os.Stat(w.themesDir); err == nil && info.IsDir() {
			w.addThemesDir(watcher)
		} else if parent := filepath.Dir(w.themesDir); parent != dir {
			// Pick up the themes directory once the user creates it.
			if err := watcher.Add(parent); err != nil {
				w.logger.Debug("failed to watch themes parent directory", "path", parent, "error", err)
			}
		}
	}

	w.watcher = watcher
	w.currentConfig = initialConfig
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.watchLoop(ctx)

	w.logger.Debug("config watcher started", "path", w.configPath, "themes", w.themesDir)
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("config watcher stopped")
}

// CurrentConfig returns the last valid configuration.
func (w *ConfigWatcher) CurrentConfig() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

func (w *ConfigWatcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)
	defer func() { _ = w.watcher.Close() }()

	w.mu.RLock()
	delay := w.delay
	w.mu.RUnlock()

	var (
		configDue <-chan time.Time
		themeDue  <-chan time.Time
		themeName string
	)

	configFile := filepath.Base(w.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) && w.themesDir != "" && filepath.Clean(event.Name) == w.themesDir {
				w.addThemesDir(w.watcher)
				continue
			}

			switch {
			case filepath.Dir(event.Name) == filepath.Dir(w.configPath) && filepath.Base(event.Name) == configFile:
				configDue = time.After(delay)
			case w.themesDir != "" && filepath.Dir(event.Name) == w.themesDir && strings.HasSuffix(event.Name, ".css"):
				themeName = strings.TrimSuffix(filepath.Base(event.Name), ".css")
				themeDue = time.After(delay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-configDue:
			configDue = nil
			w.reload()

		case <-themeDue:
			themeDue = nil
			w.themeChanged(themeName)
		}
	}
}

func (w *ConfigWatcher) addThemesDir(watcher *fsnotify.Watcher) {
	if err := watcher.Add(w.themesDir); err != nil {
		w.logger.Warn("failed to watch themes directory", "path", w.themesDir, "error", err)
		return
	}
	w.logger.Debug("watching themes directory", "path", w.themesDir)
}

func (w *ConfigWatcher) reload() {
	w.mu.RLock()
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	w.mu.RUnlock()

	w.logger.Debug("config file changed", "path", w.configPath)

	newConfig, err := config.LoadFile(w.configPath)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.currentConfig = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully")
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
}

func (w *ConfigWatcher) themeChanged(name string) {
	w.mu.RLock()
	callback := w.onThemeCallback
	w.mu.RUnlock()

	w.logger.Debug("theme file changed", "theme", name)
	if callback != nil {
		callback(name)
	}
}
