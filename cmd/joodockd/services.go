package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/joodock/internal/config"
	"github.com/jmylchreest/joodock/internal/daemon"
	"github.com/jmylchreest/joodock/internal/dbus"
	"github.com/jmylchreest/joodock/internal/hotzone"
	"github.com/jmylchreest/joodock/internal/pointer"
	"github.com/jmylchreest/joodock/internal/theme"
	"github.com/jmylchreest/joodock/internal/visibility"
)

// services is everything joodockd runs besides the popup itself.
type services struct {
	mu sync.Mutex

	logger   *slog.Logger
	levelVar *slog.LevelVar
	debug    bool

	cfg        *config.Config
	configPath string

	flag     *visibility.Flag
	ctrl     *visibility.Controller
	monitor  *hotzone.Monitor
	server   *dbus.Server
	watcher  *daemon.ConfigWatcher
	notifier *daemon.Notifier

	// Called after a valid config reload and after a theme file change.
	// Both run on the watcher goroutine.
	onReload func(cfg *config.Config)
	onTheme  func(name string)
}

func newServices(cfg *config.Config, configPath string, logger *slog.Logger, levelVar *slog.LevelVar, debug bool) *services {
	s := &services{
		logger:     logger,
		levelVar:   levelVar,
		debug:      debug,
		cfg:        cfg,
		configPath: configPath,
		flag:       visibility.NewFlag(),
		notifier:   daemon.NewNotifier(logger),
	}
	s.notifier.SetEnabled(cfg.Notify.Enabled)
	s.applyLogLevel(cfg)
	return s
}

// start wires the controller to window and starts the background services.
func (s *services) start(ctx context.Context, window visibility.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl = visibility.NewController(window, s.flag, s.logger)
	s.ctrl.SetOptimistic(s.cfg.Visibility.Optimistic)

	sampler, backend, err := pointer.New(s.cfg.Pointer.Backend)
	if err != nil {
		s.logger.Warn("pointer backend unavailable, hot zone disabled", "backend", s.cfg.Pointer.Backend, "error", err)
		sampler, backend = pointer.Inert{}, pointer.BackendNone
	}
	if backend == pointer.BackendNone && s.cfg.Pointer.Backend != pointer.BackendNone {
		s.notifier.NotifyPointerUnavailable()
	}
	s.logger.Info("pointer backend selected", "backend", backend)

	s.monitor = hotzone.NewMonitor(sampler, s.flag, s.ctrl, s.cfg.HotzoneSettings(), s.logger)
	if err := s.monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start hot zone monitor: %w", err)
	}

	s.server = dbus.NewServer(s.ctrl, s.logger)
	if err := s.server.Start(); err != nil {
		s.monitor.Stop()
		return fmt.Errorf("failed to start D-Bus server: %w", err)
	}

	themesDir, err := theme.ThemesDir()
	if err != nil {
		s.logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}
	s.watcher = daemon.NewConfigWatcher(s.configPath, themesDir, s.logger)
	s.watcher.SetReloadCallback(s.reload)
	s.watcher.SetErrorCallback(func(err error) {
		s.notifier.NotifyConfigError(err)
	})
	s.watcher.SetThemeCallback(func(name string) {
		if s.onTheme != nil {
			s.onTheme(name)
		}
	})
	if err := s.watcher.Start(ctx, s.cfg); err != nil {
		s.logger.Warn("failed to start config watcher", "error", err)
	}

	return nil
}

func (s *services) reload(newConfig *config.Config) {
	if err := s.monitor.UpdateSettings(newConfig.HotzoneSettings()); err != nil {
		s.logger.Warn("rejected hot zone settings", "error", err)
	}
	s.ctrl.SetOptimistic(newConfig.Visibility.Optimistic)
	s.notifier.SetEnabled(newConfig.Notify.Enabled)
	s.applyLogLevel(newConfig)

	if newConfig.Pointer.Backend != s.cfg.Pointer.Backend {
		s.logger.Warn("pointer backend change takes effect after restart",
			"current", s.cfg.Pointer.Backend, "configured", newConfig.Pointer.Backend)
	}

	if s.onReload != nil {
		s.onReload(newConfig)
	}
	s.cfg = newConfig
	s.notifier.NotifyConfigReloaded()
}

func (s *services) applyLogLevel(cfg *config.Config) {
	if s.debug {
		s.levelVar.Set(slog.LevelDebug)
		return
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		s.logger.Warn("invalid log level, using info", "level", cfg.Log.Level)
		level = slog.LevelInfo
	}
	s.levelVar.Set(level)
}

// stop shuts the services down in reverse start order.
func (s *services) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.server != nil {
		if err := s.server.Stop(); err != nil {
			s.logger.Warn("error stopping D-Bus server", "error", err)
		}
	}
	if s.monitor != nil {
		s.monitor.Stop()
	}
}
