package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet with imports inlined.
type Theme struct {
	Name     string    // Theme name (without .css extension)
	Path     string    // File path, empty for bundled themes
	CSS      string    // CSS with imports inlined
	ModTime  time.Time // Zero for bundled themes
	Bundled  bool
	Fallback bool // Requested theme was missing and the default was used
}

// Info describes an available theme.
type Info struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Bundled bool   `json:"bundled"`
	// Overrides is set for user themes that shadow a bundled theme.
	Overrides bool `json:"overrides,omitempty"`
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "joodock", "themes"), nil
}

// Resolver finds themes by name. The zero value only sees bundled themes.
type Resolver struct {
	UserDir string
}

// NewResolver creates a resolver for the default user themes directory.
func NewResolver() *Resolver {
	dir, err := ThemesDir()
	if err != nil {
		dir = ""
	}
	return &Resolver{UserDir: dir}
}

// Resolve loads a theme by name.
// Resolution order:
//  1. User themes directory (~/.config/joodock/themes/)
//  2. Bundled themes
//  3. The bundled default theme, with Fallback set
//
// A user theme that exists but cannot be read is an error.
func (r *Resolver) Resolve(name string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "_") {
		return nil, fmt.Errorf("invalid theme name %q", name)
	}

	if r.UserDir != "" {
		path := filepath.Join(r.UserDir, name+".css")
		if info, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read theme %s: %w", path, err)
			}
			return &Theme{
				Name:    name,
				Path:    path,
				CSS:     r.ProcessImports(string(data), filepath.Dir(path), nil),
				ModTime: info.ModTime(),
			}, nil
		}
	}

	if css, found := GetEmbeddedTheme(name); found {
		return &Theme{
			Name:    name,
			CSS:     r.ProcessImports(css, "", nil),
			Bundled: true,
		}, nil
	}

	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:     DefaultThemeName,
		CSS:      r.ProcessImports(css, "", nil),
		Bundled:  true,
		Fallback: true,
	}, nil
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against the user themes
// directory, then against the bundled files. The seen map prevents circular
// imports.
func (r *Resolver) ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		for _, fullPath := range r.candidates(importPath, baseDir) {
			if seen[fullPath] {
				return "/* circular import prevented: " + importPath + " */"
			}
			data, err := os.ReadFile(fullPath)
			if err != nil {
				continue
			}
			seen[fullPath] = true
			return "/* imported: " + importPath + " */\n" +
				r.ProcessImports(string(data), filepath.Dir(fullPath), seen)
		}

		stem := strings.TrimSuffix(filepath.Base(importPath), ".css")
		key := "embedded:" + stem
		if seen[key] {
			return "/* circular import prevented: " + importPath + " */"
		}
		if embedded, found := GetEmbeddedTheme(stem); found {
			seen[key] = true
			return "/* imported (embedded): " + importPath + " */\n" +
				r.ProcessImports(embedded, "", seen)
		}

		return "/* import failed: " + importPath + " */"
	})
}

func (r *Resolver) candidates(importPath, baseDir string) []string {
	if filepath.IsAbs(importPath) {
		return []string{importPath}
	}
	var out []string
	if baseDir != "" {
		out = append(out, filepath.Join(baseDir, importPath))
	}
	if r.UserDir != "" && r.UserDir != baseDir {
		out = append(out, filepath.Join(r.UserDir, importPath))
	}
	return out
}

// List returns bundled themes followed by user themes.
func (r *Resolver) List() []Info {
	bundled := make(map[string]int)
	var themes []Info

	for _, name := range ListEmbeddedThemes() {
		bundled[name] = len(themes)
		themes = append(themes, Info{Name: name, Bundled: true})
	}

	if r.UserDir == "" {
		return themes
	}
	entries, err := os.ReadDir(r.UserDir)
	if err != nil {
		return themes
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		stem := strings.TrimSuffix(name, ".css")
		info := Info{Name: stem, Path: filepath.Join(r.UserDir, name)}
		if _, ok := bundled[stem]; ok {
			info.Overrides = true
		}
		themes = append(themes, info)
	}
	return themes
}
