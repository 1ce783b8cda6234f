package display

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/browser"

	"github.com/jmylchreest/joodock/internal/config"
)

// Opener functions, swapped out in tests.
var (
	openFile = browser.OpenFile
	openURL  = browser.OpenURL
)

// Launcher opens dock entries with the desktop's default handler.
type Launcher struct {
	logger *slog.Logger
}

// NewLauncher creates a launcher.
func NewLauncher(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	// Keep xdg-open chatter out of the daemon's stdout.
	browser.Stdout = os.Stderr
	return &Launcher{logger: logger}
}

// Open opens e. URLs go to the browser, everything else to the file handler.
func (l *Launcher) Open(e config.Entry) error {
	if e.IsURL() {
		if err := openURL(e.Path); err != nil {
			return fmt.Errorf("failed to open %s: %w", e.Path, err)
		}
		l.logger.Info("opened entry", "name", e.DisplayName(), "url", e.Path)
		return nil
	}

	path := e.ExpandedPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("entry %q: %w", e.DisplayName(), err)
	}
	if err := openFile(path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	l.logger.Info("opened entry", "name", e.DisplayName(), "path", path)
	return nil
}
