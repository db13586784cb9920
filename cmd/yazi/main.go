// Command yazi is the terminal file manager's entrypoint: it loads
// configuration, wires the Manager/Scheduler/keymap Resolver/watcher/
// preview pipeline into a core.Core, and hands the result to a
// charmbracelet/bubbletea program — the same shape the teacher's
// cmd/sidecar/main.go builds its plugin registry and runs tea.NewProgram
// with.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/yazi-go/yazi/internal/adaptor"
	"github.com/yazi-go/yazi/internal/app"
	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/config"
	"github.com/yazi-go/yazi/internal/core"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/scheduler"
	"github.com/yazi-go/yazi/internal/watcher"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	cwdFile      = flag.String("cwd-file", "", "write the final working directory to this path on exit")
	chooserFile  = flag.String("chooser-file", "", "write chosen paths to this file on exit")
	selectedFile = flag.String("selected-file", "", "write chosen paths to this file on exit (alias of --chooser-file)")
	clearCache   = flag.Bool("clear-cache", false, "remove the preview cache directory and exit")
	localEvents  = flag.String("local-events", "", "comma-separated list of local event names to subscribe to")
	remoteEvents = flag.String("remote-events", "", "comma-separated list of remote event names to subscribe to")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.BoolP("version", "V", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("yazi version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := config.Load(config.Dir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadTheme(config.Dir()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load theme: %v\n", err)
		os.Exit(1)
	}

	if *clearCache {
		if cfg.Preview.CacheDir != "" {
			if err := os.RemoveAll(cfg.Preview.CacheDir); err != nil {
				fmt.Fprintf(os.Stderr, "failed to clear cache: %v\n", err)
				os.Exit(1)
			}
		}
		os.Exit(0)
	}

	entry := "."
	if flag.NArg() > 0 {
		entry = flag.Arg(0)
	}
	cwd, err := filepath.Abs(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve entry path: %v\n", err)
		os.Exit(1)
	}

	km := keymap.NewResolver()
	if err := config.BindKeymapBytes([]byte(app.DefaultKeymap), km); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind built-in keymap: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadKeymap(config.Dir(), km); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load keymap overrides: %v\n", err)
		os.Exit(1)
	}

	w, watcherOps, err := watcher.New()
	if err != nil {
		logger.Warn("watcher unavailable, falling back to unwatched folders", "error", err)
	}

	mgr := core.NewManager(yzurl.New(cwd), w)
	if w != nil {
		w.Watch(mgr.WatchSet())
	}

	workers := cfg.Tasks.WorkersPerPriority
	if workers <= 0 {
		workers = 3
	}
	queueDepth := cfg.Tasks.QueueDepth
	if queueDepth <= 0 {
		queueDepth = 64
	}
	sched := scheduler.New(workers, queueDepth)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	trashDir := filepath.Join(os.TempDir(), "yazi-trash")
	c := core.NewCore(mgr, sched, km, trashDir)
	c.Bus = bus.NewBus()

	var ad *adaptor.Adaptor
	if kinds := detectImageKinds(); len(kinds) > 0 {
		cacheDir := cfg.Preview.CacheDir
		if cacheDir == "" {
			cacheDir = filepath.Join(os.TempDir(), "yazi-preview-cache")
		}
		ad = adaptor.New(kinds, cacheDir)
	}

	out := app.OutPaths{
		CwdFile:      *cwdFile,
		ChooserFile:  *chooserFile,
		SelectedFile: *selectedFile,
	}
	// --remote-events is accepted for flag compatibility; see eventSink's
	// doc comment for why it has nothing to subscribe to in this build.
	_ = remoteEvents

	model := app.New(c, cfg, out, watcherOps, ad, logger).WithEventSink(os.Stdout, *localEvents)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running application: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(app.Model); ok {
		os.Exit(m.ExitCode())
	}
}

// detectImageKinds picks a terminal image protocol preference order from
// $TERM/$TERM_PROGRAM, the same sniff original_source's term detection
// does before falling back to no image support at all.
func detectImageKinds() []adaptor.Kind {
	term := os.Getenv("TERM")
	prog := os.Getenv("TERM_PROGRAM")
	switch {
	case strings.Contains(term, "kitty"):
		return []adaptor.Kind{adaptor.Kgp, adaptor.KgpOld}
	case prog == "iTerm.app" || os.Getenv("ITERM_SESSION_ID") != "":
		return []adaptor.Kind{adaptor.Iip}
	case strings.Contains(term, "foot") || strings.Contains(term, "wezterm"):
		return []adaptor.Kind{adaptor.SixelKind}
	default:
		return nil
	}
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + getShortRevision(revision)
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

// getShortRevision returns the first 12 chars of a revision.
func getShortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yazi [ENTRY] [options]\n\n")
		fmt.Fprintf(os.Stderr, "A terminal file manager.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
