// Package config loads the three TOML configuration files spec.md §6
// names (yazi.toml, keymap.toml, theme.toml) into the structs the rest of
// the module needs. Per SPEC_FULL.md §1, full TOML parsing is explicitly
// out of scope beyond this: there is no general plugin-facing config
// surface, only the fixed schema below.
//
// Every value is built once at start-up into an immutable struct behind a
// sync.OnceValue cell, per spec.md §9's "process-wide mutable singletons
// -> immutable config structs built at init" design note — there is no
// mutable global config anywhere in this package.
package config

import "time"

// Mgr configures the folder/tab manager section of yazi.toml.
type Mgr struct {
	Ratio        [3]int `toml:"ratio"` // parent:current:preview column ratio
	ShowHidden   bool   `toml:"show_hidden"`
	SortBy       string `toml:"sort_by"`
	SortReverse  bool   `toml:"sort_reverse"`
	SortDirFirst bool   `toml:"sort_dir_first"`
	Linemode     string `toml:"linemode"`
}

// Preview configures the preview/peek pipeline.
type Preview struct {
	TabSize     int    `toml:"tab_size"`
	MaxWidth    int    `toml:"max_width"`
	MaxHeight   int    `toml:"max_height"`
	CacheDir    string `toml:"cache_dir"`
	ImageFilter string `toml:"image_filter"`
}

// Opener describes a single named opener rule: the shell command template
// it runs and its process dispatch mode (spec.md §4.5's block/orphan/bg).
type Opener struct {
	Run    string `toml:"run"`
	Block  bool   `toml:"block"`
	Orphan bool   `toml:"orphan"`
}

// Open resolves which opener rule set to use per mime pattern.
type Open struct {
	Rules map[string][]string `toml:"rules"` // mime pattern -> opener names
}

// Tasks configures the scheduler's worker pool sizing.
type Tasks struct {
	WorkersPerPriority int           `toml:"workers"`
	QueueDepth         int           `toml:"queue_depth"`
	ProgressInterval   time.Duration `toml:"-"`
	BlockerTimeout     time.Duration `toml:"-"`
}

// Plugin configures the (interface-only) scripting/plugin host, per
// spec.md §9's PluginHost capability seam.
type Plugin struct {
	PrependFetchers []string `toml:"prepend_fetchers"`
	PrependPreloads []string `toml:"prepend_preloaders"`
}

// Input configures the input popup (spec.md §4.2's input layer).
type Input struct {
	CursorBlink bool `toml:"cursor_blink"`
}

// Confirm configures the confirm popup's default button focus.
type Confirm struct {
	DefaultYes bool `toml:"default_yes"`
}

// Pick configures the pick popup.
type Pick struct {
	MaxVisible int `toml:"max_visible"`
}

// Which configures which-key disclosure timing (spec.md §4.2).
type Which struct {
	Timeout     time.Duration `toml:"-"`
	TimeoutMS   int           `toml:"timeout_ms"`
	SortByGroup bool          `toml:"sort_by_group"`
}

// Config is the root of yazi.toml.
type Config struct {
	Mgr     Mgr                 `toml:"mgr"`
	Preview Preview             `toml:"preview"`
	Opener  map[string][]Opener `toml:"opener"`
	Open    Open                `toml:"open"`
	Tasks   Tasks               `toml:"tasks"`
	Plugin  Plugin              `toml:"plugin"`
	Input   Input               `toml:"input"`
	Confirm Confirm             `toml:"confirm"`
	Pick    Pick                `toml:"pick"`
	Which   Which               `toml:"which"`
}

// Default returns the built-in configuration used when no yazi.toml is
// present, matching the original's shipped defaults closely enough for
// SPEC_FULL's purposes.
func Default() Config {
	return Config{
		Mgr: Mgr{Ratio: [3]int{1, 3, 4}, SortBy: "alphabetical", SortDirFirst: true, Linemode: "none"},
		Preview: Preview{
			TabSize: 2, MaxWidth: 1200, MaxHeight: 1200, ImageFilter: "catmull-rom",
		},
		Tasks: Tasks{WorkersPerPriority: 3, QueueDepth: 128, ProgressInterval: 500 * time.Millisecond},
		Which: Which{Timeout: 600 * time.Millisecond, TimeoutMS: 600},
		Pick:  Pick{MaxVisible: 10},
	}
}

// finalize resolves the millisecond fields TOML carries (time.Duration
// has no native TOML representation) into their typed Duration
// counterparts after decoding.
func (c *Config) finalize() {
	if c.Which.TimeoutMS > 0 {
		c.Which.Timeout = time.Duration(c.Which.TimeoutMS) * time.Millisecond
	} else if c.Which.Timeout == 0 {
		c.Which.Timeout = 600 * time.Millisecond
	}
	if c.Tasks.WorkersPerPriority == 0 {
		c.Tasks.WorkersPerPriority = 3
	}
	if c.Tasks.QueueDepth == 0 {
		c.Tasks.QueueDepth = 128
	}
	if c.Tasks.ProgressInterval == 0 {
		c.Tasks.ProgressInterval = 500 * time.Millisecond
	}
}
