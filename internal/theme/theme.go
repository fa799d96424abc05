// Package theme lists the CSS themes shipped next to the application,
// remembers the user's choice and serves theme files over local HTTP.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/Cyclone1070/mizu/internal/config"
	"go.uber.org/zap"
)

// ErrInvalidName is returned for theme names that are not a plain file name.
var ErrInvalidName = errors.New("invalid theme name")

// Theme describes one stylesheet.
type Theme struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"displayName"`
	IsDefault   bool   `json:"isDefault"`
}

// stateStore persists the chosen theme.
type stateStore interface {
	LoadState() (*config.State, error)
	SaveState(state *config.State) error
}

// Catalog is the set of themes in one directory.
type Catalog struct {
	dir         string
	defaultName string
	store       stateStore
	logger      *zap.Logger

	mu sync.Mutex
}

// NewCatalog creates a catalog over cfg.Dir, or the executable's directory when it is empty.
func NewCatalog(cfg config.ThemeConfig, store stateStore, logger *zap.Logger) (*Catalog, error) {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := cfg.Dir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate theme directory: %w", err)
		}
		dir = filepath.Dir(exe)
	}
	return &Catalog{dir: dir, defaultName: cfg.Default, store: store, logger: logger}, nil
}

// Dir returns the directory themes are read from.
func (c *Catalog) Dir() string {
	return c.dir
}

// List returns the *.css files in the theme directory, default first, then by display name.
func (c *Catalog) List() ([]Theme, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.css"))
	if err != nil {
		return nil, err
	}

	themes := make([]Theme, 0, len(matches))
	for _, match := range matches {
		name := filepath.Base(match)
		themes = append(themes, Theme{
			Filename:    name,
			DisplayName: DisplayName(name),
			IsDefault:   name == c.defaultName,
		})
	}
	sort.SliceStable(themes, func(i, j int) bool {
		if themes[i].IsDefault != themes[j].IsDefault {
			return themes[i].IsDefault
		}
		return themes[i].DisplayName < themes[j].DisplayName
	})
	return themes, nil
}

// Exists reports whether name is a theme file in the catalog directory.
func (c *Catalog) Exists(name string) bool {
	p, err := c.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Path returns the file path for name, rejecting anything that is not a bare file name.
func (c *Catalog) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(c.dir, name), nil
}

// Save records name as the preferred theme.
func (c *Catalog) Save(name string) error {
	if _, err := c.Path(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.LoadState()
	if err != nil {
		c.logger.Warn("discarding unreadable state file", zap.Error(err))
		state = &config.State{}
	}
	state.Theme = name
	if err := c.store.SaveState(state); err != nil {
		return err
	}
	c.logger.Info("theme saved", zap.String("theme", name))
	return nil
}

// Saved returns the preferred theme, falling back to the default when none
// is saved or the saved file no longer exists.
func (c *Catalog) Saved() string {
	c.mu.Lock()
	state, err := c.store.LoadState()
	c.mu.Unlock()
	if err != nil {
		c.logger.Debug("failed to load state", zap.Error(err))
		return c.defaultName
	}
	if state.Theme == "" || !c.Exists(state.Theme) {
		return c.defaultName
	}
	return state.Theme
}

// DisplayName derives a human label from a theme file name:
// "my_dark-theme.css" becomes "My Dark Theme".
func DisplayName(filename string) string {
	base := strings.TrimSuffix(filename, ".css")
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return titleCase(base)
}

// titleCase upper-cases the first letter of each run of letters and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
