package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml"

	"github.com/yazi-go/yazi/internal/styles"
)

// themeFile is the decode target for theme.toml: a base theme name plus
// a generic overrides map, matching styles.ApplyThemeWithGenericOverrides'
// shape (strings, string slices, or a float angle).
type themeFile struct {
	Theme     string                 `toml:"theme"`
	Overrides map[string]interface{} `toml:"overrides"`
}

// LoadTheme reads theme.toml from dir and applies it via the styles
// package. A missing file leaves the default theme active.
func LoadTheme(dir string) error {
	path := filepath.Join(dir, "theme.toml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var tf themeFile
	if err := toml.Unmarshal(raw, &tf); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if tf.Theme == "" {
		tf.Theme = "default"
	}
	if !styles.IsValidTheme(tf.Theme) {
		return fmt.Errorf("config: %s: unrecognized theme %q", path, tf.Theme)
	}

	styles.ApplyThemeWithGenericOverrides(tf.Theme, tf.Overrides)
	return nil
}
