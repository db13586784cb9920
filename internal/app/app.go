// Package app wires every subsystem spec.md §2 names — the Manager, the
// Scheduler, the keymap Resolver, the command palette, the popup modals,
// and the watcher/preview pipelines internal/core's Core aggregates —
// into a single charmbracelet/bubbletea tea.Model. It plays the role the
// teacher's internal/app/model.go top-level Model plays for sidecar's
// plugin registry: the one place that turns bubbletea's Init/Update/View
// contract into calls on the domain layer underneath it.
package app

import (
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/adaptor"
	"github.com/yazi-go/yazi/internal/config"
	"github.com/yazi-go/yazi/internal/core"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/mouse"
	"github.com/yazi-go/yazi/internal/ui"
)

// tickInterval drives both the render-debounce poll (spec.md §4.1's 10ms
// window) and the scheduler's progress aggregation (§4.5's 500ms
// debounce); both are cheap no-ops to poll more often than they fire.
const tickInterval = 50 * time.Millisecond

// OutPaths names the shutdown hook files spec.md §6 describes: --cwd-file
// records the final working directory, --chooser-file and its
// selected-file sibling record which entries (if any) the user chose
// before quitting. Any blank path is simply skipped.
type OutPaths struct {
	CwdFile      string
	ChooserFile  string
	SelectedFile string
}

// Model is the application's tea.Model. Its own state is deliberately
// thin — nearly everything it needs to render or mutate lives on Core,
// the same split the teacher keeps between model.go (bubbletea glue) and
// its plugins (actual feature state).
type Model struct {
	Core   *core.Core
	Config config.Config
	Out    OutPaths

	watcherOps <-chan filesop.Op
	adaptor    *adaptor.Adaptor

	width, height int

	mouseHandler *mouse.Handler
	rowHits      *mouse.HitMap

	events *eventSink
	log    *slog.Logger

	lastTick time.Time // most recent tickMsg, fed to Scheduler.Progress from View
	spinner  ui.BrailleSpinner // animates the footer while tasks are in flight
	skeleton ui.Skeleton       // shimmer placeholder for the preview pane while a peek is pending

	chosen []string // accumulated chooser picks, written to ChooserFile on quit
	quit   bool
	code   int
}

// New builds the app Model around an already-wired Core. watcherOps may be
// nil if no watcher is running; ad may be nil on terminals with no usable
// image protocol.
func New(c *core.Core, cfg config.Config, out OutPaths, watcherOps <-chan filesop.Op, ad *adaptor.Adaptor, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		Core:         c,
		Config:       cfg,
		Out:          out,
		watcherOps:   watcherOps,
		adaptor:      ad,
		mouseHandler: mouse.NewHandler(),
		rowHits:      mouse.NewHitMap(),
		log:          logger,
		skeleton:     ui.NewSkeleton(6, nil),
	}
}

// Init kicks off the active tab's initial directory loads and the render/
// progress ticker, and starts listening on the watcher channel if one was
// supplied.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick(), m.Core.Palette.Init()}
	cmds = append(cmds, m.reloadCmds()...)
	if m.watcherOps != nil {
		cmds = append(cmds, waitForWatcher(m.watcherOps))
	}
	m.Core.Dispatch(refreshCmd())
	return tea.Batch(cmds...)
}

// WithEventSink streams dispatched commands matching csv (a --local-events
// style comma-separated allow-list, "*" for everything) to w as JSON
// lines. A blank csv leaves event streaming disabled.
func (m Model) WithEventSink(w io.Writer, csv string) Model {
	m.events = newEventSink(w, csv)
	return m
}

// ExitCode reports the process exit status accumulated from the last
// "quit" command this Model dispatched, for main to pass to os.Exit after
// the bubbletea program returns.
func (m Model) ExitCode() int { return m.code }

func (m Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type tickMsg time.Time
