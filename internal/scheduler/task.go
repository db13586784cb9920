package scheduler

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// Stage is a Task's lifecycle position, per spec.md §4.5: Pending until a
// worker claims it, Dispatched while it's in flight (or has finished but
// its hook hasn't fired), Hooked once the terminal hook has run. Stage
// only ever moves forward — ported from original_source's
// core/src/tasks/task.rs TaskStage ordering.
type Stage uint8

const (
	Pending Stage = iota
	Dispatched
	Hooked
)

func (s Stage) String() string {
	switch s {
	case Pending:
		return "pending"
	case Dispatched:
		return "dispatched"
	default:
		return "hooked"
	}
}

// Outcome is a task's terminal result.
type Outcome uint8

const (
	Succ Outcome = iota
	Fail
	Cancel
)

// Task tracks one scheduled unit of work's progress, mirroring
// original_source's core/src/tasks/task.rs Task struct.
type Task struct {
	ID    uint64
	Name  string
	Stage Stage

	Found     uint32
	Processed uint32
	Todo      uint64
	Done      uint64

	Log []string

	Outcome Outcome
	Err     error
}

// Summary is the read-only progress snapshot exposed to the UI, mirroring
// TaskSummary in original_source/core/src/tasks/task.rs.
func (t *Task) Summary() Summary {
	return Summary{
		Name:      t.Name,
		Found:     t.Found,
		Processed: t.Processed,
		Todo:      t.Todo,
		Done:      t.Done,
	}
}

// Summary is a snapshot copy of a Task's progress fields.
type Summary struct {
	Name      string
	Found     uint32
	Processed uint32
	Todo      uint64
	Done      uint64
}

// Percent returns the task's completion percentage, 100 if Todo is zero
// (nothing to do counts as complete).
func (s Summary) Percent() float64 {
	if s.Todo == 0 {
		return 100
	}
	return float64(s.Done) / float64(s.Todo) * 100
}

// String renders a human-readable progress line for the task log, e.g.
// "copy 3/10 (512 KB / 2.1 MB)".
func (s Summary) String() string {
	return fmt.Sprintf("%s %d/%d (%s / %s)", s.Name, s.Processed, s.Found, humanize.Bytes(uint64(s.Done)), humanize.Bytes(uint64(s.Todo)))
}

// Hook runs once a task reaches a terminal stage, given whether it was
// cancelled, to clean up partially produced work (e.g. temp files).
type Hook func(cancelled bool)

// registry tracks every in-flight task plus its pending hook, the Go
// analogue of original_source's core/src/tasks/workers/running.rs
// Running struct (BTreeMap<usize, Task> + a hook map), guarded by a
// mutex since tasks complete concurrently across worker goroutines.
type registry struct {
	mu    sync.Mutex
	incr  uint64
	all   map[uint64]*Task
	hooks map[uint64]Hook
}

func newRegistry() *registry {
	return &registry{all: make(map[uint64]*Task), hooks: make(map[uint64]Hook)}
}

func (r *registry) add(name string) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incr++
	t := &Task{ID: r.incr, Name: name}
	r.all[t.ID] = t
	return t
}

func (r *registry) get(id uint64) (*Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.all[id]
	return t, ok
}

func (r *registry) setHook(id uint64, h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[id] = h
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.all)
}

func (r *registry) values() []*Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Task, 0, len(r.all))
	for _, t := range r.all {
		out = append(out, t)
	}
	return out
}

// tryRemove advances id's stage to at least stage and, once the task is
// both Dispatched-or-later and fully processed, removes it — running its
// hook exactly once. This is the direct port of original_source's
// Running::try_remove: Stage only moves forward, a Dispatched task stays
// in the registry until processed == found, and the hook fires once on
// the Dispatched -> Hooked transition.
func (r *registry) tryRemove(id uint64, stage Stage, cancelled bool) {
	r.mu.Lock()
	t, ok := r.all[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	if stage > t.Stage {
		t.Stage = stage
	}

	switch t.Stage {
	case Pending:
		r.mu.Unlock()
		return
	case Dispatched:
		if t.Processed < t.Found {
			r.mu.Unlock()
			return
		}
		hook, hasHook := r.hooks[id]
		delete(r.hooks, id)
		r.mu.Unlock()
		if hasHook {
			hook(cancelled)
		}
	default: // Hooked
		r.mu.Unlock()
	}

	r.mu.Lock()
	delete(r.all, id)
	r.mu.Unlock()
}
