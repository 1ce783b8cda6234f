// Package config handles loading and saving the joodock configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

// Config is the joodock configuration.
// Loaded from ~/.config/joodock/joodock.toml
type Config struct {
	Hotzone    HotzoneConfig    `toml:"hotzone"`
	Pointer    PointerConfig    `toml:"pointer"`
	Visibility VisibilityConfig `toml:"visibility"`
	Popup      PopupConfig      `toml:"popup"`
	Notify     NotifyConfig     `toml:"notify"`
	Log        LogConfig        `toml:"log"`
	Entries    []Entry          `toml:"entries"`
}

// HotzoneConfig controls the hover zone and debounce timing.
type HotzoneConfig struct {
	Width        int      `toml:"width"`         // Hover zone width in pixels
	Height       int      `toml:"height"`        // Hover zone height in pixels
	ShowDelay    Duration `toml:"show_delay"`    // e.g. "300ms" or 300
	HideDelay    Duration `toml:"hide_delay"`    // e.g. "2s" or 2000
	PollInterval Duration `toml:"poll_interval"` // e.g. "100ms" or 100
}

// PointerConfig selects how the pointer is sampled.
type PointerConfig struct {
	Backend string `toml:"backend"` // "auto", "hyprland", "x11", "windows", "none"
}

// VisibilityConfig controls the show/hide failure policy.
type VisibilityConfig struct {
	// Write the visibility flag even when the window command fails.
	Optimistic bool `toml:"optimistic"`
}

// PopupConfig contains popup window settings.
type PopupConfig struct {
	HideOnFocusLost bool   `toml:"hide_on_focus_lost"`
	Theme           string `toml:"theme"`        // Theme name without .css extension
	ColorScheme     string `toml:"color_scheme"` // "system", "light", or "dark"
}

// NotifyConfig controls desktop notifications about the daemon itself.
type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig controls daemon logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Entry is one launchable item in the popup.
type Entry struct {
	Name string `toml:"name"`
	Path string `toml:"path"` // File, directory or URL; ~ is expanded
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

var validBackends = []string{"auto", "hyprland", "x11", "windows", "none"}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Hotzone: HotzoneConfig{
			Width:        hotzone.DefaultZoneWidth,
			Height:       hotzone.DefaultZoneHeight,
			ShowDelay:    Duration(hotzone.DefaultShowDelay),
			HideDelay:    Duration(hotzone.DefaultHideDelay),
			PollInterval: Duration(hotzone.DefaultPollInterval),
		},
		Pointer: PointerConfig{
			Backend: "auto",
		},
		Visibility: VisibilityConfig{
			Optimistic: true,
		},
		Popup: PopupConfig{
			HideOnFocusLost: true,
			Theme:           "default",
			ColorScheme:     string(ColorSchemeSystem),
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "joodock", "joodock.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from path.
// If the file doesn't exist, returns the default configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or the default path if empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.HotzoneSettings().Validate(); err != nil {
		return fmt.Errorf("hotzone: %w", err)
	}

	validBackend := false
	for _, b := range validBackends {
		if c.Pointer.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid pointer backend %q, must be one of: %v", c.Pointer.Backend, validBackends)
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Popup.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color scheme %q, must be one of: %v", c.Popup.ColorScheme, ValidColorSchemes())
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	for i, e := range c.Entries {
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("entry %d (%q) has no path", i, e.Name)
		}
	}

	return nil
}

// HotzoneSettings converts the [hotzone] section for the monitor.
func (c *Config) HotzoneSettings() hotzone.Settings {
	return hotzone.Settings{
		ZoneWidth:    c.Hotzone.Width,
		ZoneHeight:   c.Hotzone.Height,
		ShowDelay:    c.Hotzone.ShowDelay.Duration(),
		HideDelay:    c.Hotzone.HideDelay.Duration(),
		PollInterval: c.Hotzone.PollInterval.Duration(),
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// DisplayName returns the entry label, falling back to the file name.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(e.ExpandedPath())
}

// ExpandedPath returns Path with a leading ~ expanded.
func (e Entry) ExpandedPath() string {
	return expandPath(e.Path)
}

// IsURL reports whether the entry points at a URL rather than a file.
func (e Entry) IsURL() bool {
	return strings.Contains(e.Path, "://")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
