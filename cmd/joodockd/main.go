// Package main is the entry point for the joodockd dock daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/joodock/internal/config"
	"github.com/jmylchreest/joodock/internal/dbus"
	"github.com/jmylchreest/joodock/internal/display"
	"github.com/jmylchreest/joodock/internal/theme"
	"github.com/jmylchreest/joodock/internal/visibility"
)

const appID = "io.github.jmylchreest.joodockd"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	headless := flag.Bool("headless", false, "Run without a popup window (commands and hot zone are logged only)")
	debug := flag.Bool("debug", false, "Enable debug logging, overriding the config log level")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/joodock/joodock.toml)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("joodockd version", version)
		os.Exit(0)
	}

	// Set up structured logging; the level follows the config.
	levelVar := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelVar,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			logger.Error("failed to get config path", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		logger.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}

	svc := newServices(cfg, path, logger, levelVar, *debug)

	if *headless {
		runHeadless(svc)
		return
	}
	runGTK(svc)
}

// runHeadless runs the hot zone and D-Bus surface against a window that only
// logs. Useful on sessions without a compositor and for debugging timing.
func runHeadless(svc *services) {
	logger := svc.logger
	logger.Info("starting joodockd in headless mode", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.start(ctx, display.NewHeadlessWindow(logger)); err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	logger.Info("joodockd ready", "dbus_interface", dbus.Interface)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	svc.stop()
	logger.Info("joodockd stopped")
}

// runGTK runs joodockd with the layer-shell popup.
func runGTK(svc *services) {
	logger := svc.logger
	logger.Info("starting joodockd", "version", version)

	app := adw.NewApplication(appID, 0)

	var (
		popup       *display.PopupWindow
		themeLoader *theme.Loader
		launcher    = display.NewLauncher(logger)
		running     atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		// Stop the services off the main loop; they may be waiting on it.
		svc.stop()
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = theme.NewLoader(logger)
		if err := themeLoader.Load(svc.cfg.Popup.Theme); err != nil {
			logger.Warn("failed to load theme, using default", "theme", svc.cfg.Popup.Theme, "error", err)
			_ = themeLoader.Load(theme.DefaultThemeName)
		}
		themeLoader.Apply(nil)

		popup = display.NewPopupWindow(&app.Application, svc.cfg, logger)

		svc.onReload = func(newConfig *config.Config) {
			oldTheme := svc.cfg.Popup.Theme
			glib.IdleAdd(func() {
				popup.UpdateConfig(newConfig)
				if newConfig.Popup.Theme == oldTheme {
					return
				}
				if err := themeLoader.Load(newConfig.Popup.Theme); err != nil {
					logger.Warn("failed to load new theme", "theme", newConfig.Popup.Theme, "error", err)
					return
				}
				svc.notifier.NotifyThemeReloaded(newConfig.Popup.Theme)
			})
		}
		svc.onTheme = func(name string) {
			glib.IdleAdd(func() {
				reloaded, err := themeLoader.Reload(name)
				if err != nil {
					logger.Warn("failed to reload theme", "theme", name, "error", err)
					return
				}
				if reloaded {
					svc.notifier.NotifyThemeReloaded(themeLoader.Current().Name)
				}
			})
		}

		// Start on a worker goroutine: starting wires the controller to the
		// popup, whose commands wait on this loop.
		go func() {
			if err := svc.start(ctx, popup); err != nil {
				logger.Error("failed to start", "error", err)
				glib.IdleAdd(func() { app.Quit() })
				return
			}

			popup.SetActivateCallback(func(entry config.Entry) {
				if err := launcher.Open(entry); err != nil {
					logger.Warn("failed to open entry", "name", entry.DisplayName(), "error", err)
				}
				if err := svc.ctrl.Hide(visibility.SourceLaunch); err != nil {
					logger.Warn("failed to hide popup after launch", "error", err)
				}
			})
			popup.SetFocusLostCallback(func() {
				if err := svc.ctrl.FocusLost(); err != nil {
					logger.Warn("failed to hide popup on focus loss", "error", err)
				}
			})
			popup.SetEscapeCallback(func() {
				if err := svc.ctrl.Hide(visibility.SourceCommand); err != nil {
					logger.Warn("failed to hide popup", "error", err)
				}
			})

			logger.Info("joodockd ready",
				"dbus_interface", dbus.Interface,
				"layer_shell", popup.LayerShell(),
			)
		}()

		// The popup is hidden most of the time; keep the app alive regardless.
		app.Hold()
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if popup != nil {
			popup.Close()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])

	cancel()
	svc.stop()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("joodockd stopped")
}
