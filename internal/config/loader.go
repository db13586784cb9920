package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fatih/structtag"
	toml "github.com/pelletier/go-toml"
)

// Dir returns the config directory, honoring YAZI_CONFIG_HOME the way the
// original resolves its config root, falling back to $XDG_CONFIG_HOME/yazi
// or ~/.config/yazi.
func Dir() string {
	if d := os.Getenv("YAZI_CONFIG_HOME"); d != "" {
		return d
	}
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "yazi")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "yazi"
	}
	return filepath.Join(home, ".config", "yazi")
}

// Load reads yazi.toml from dir, merging onto Default(). A missing file is
// not an error — the defaults stand alone. An unrecognized top-level key
// is: spec.md §6 requires the loader name the offending key rather than
// silently ignore it.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, "yazi.toml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.finalize()
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := validateKnownKeys(raw, reflect.TypeOf(Config{})); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.finalize()
	return cfg, nil
}

// validateKnownKeys decodes raw into a generic map and rejects any
// top-level key that has no matching `toml` tag on typ's fields, naming
// the offending key in the returned error.
func validateKnownKeys(raw []byte, typ reflect.Type) error {
	var generic map[string]interface{}
	if err := toml.Unmarshal(raw, &generic); err != nil {
		return err
	}

	known := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tags, err := structtag.Parse(string(f.Tag))
		if err != nil {
			continue
		}
		t, err := tags.Get("toml")
		if err != nil || t.Name == "" || t.Name == "-" {
			continue
		}
		known[t.Name] = true
	}

	for key := range generic {
		if !known[key] {
			return fmt.Errorf("unrecognized key %q", key)
		}
	}
	return nil
}
