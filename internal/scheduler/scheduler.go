// Package scheduler implements the task scheduler described in spec.md
// §4.5: a three-priority queue of typed background work (file ops,
// plugin entries, prework, process spawns) with a bounded worker pool
// per priority, per-task progress tracking, terminal-state hooks, and a
// debounced TaskSummary progress aggregator.
//
// It generalizes the teacher's internal/fdmonitor package's background-
// goroutine-plus-rate-limited-check idiom (a single poller gated by a
// mutex and a minimum check interval) into three pools of worker
// goroutines draining priority-ordered channels, and follows
// original_source's core/src/tasks/{running.rs,task.rs} for task
// lifecycle (Stage, Running/registry, hooks) and
// core/src/tasks/workers/process.rs for the block/orphan/bg Process
// task shapes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Priority orders a job's position in the scheduler per spec.md §4.5.
type Priority uint8

const (
	Low Priority = iota
	Normal
	High
)

// job is one enqueued unit of work bound to its owning Task.
type job struct {
	task *Task
	run  func(ctx context.Context, t *Task) (Outcome, error)
}

// Scheduler owns the three priority channels, their worker pools, the
// task registry, and the progress aggregator.
type Scheduler struct {
	queues      [3]chan job // indexed by Priority
	workers     int
	registry    *registry
	blockerSem  chan struct{} // the "global blocker semaphore" for Process/block tasks

	cancelsMu sync.Mutex
	cancels   map[uint64]context.CancelFunc

	progressMu   sync.Mutex
	lastProgress time.Time
	debounce     time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a Scheduler with workersPerPriority worker goroutines for
// each of Low/Normal/High, and a queue depth of queueDepth per priority.
func New(workersPerPriority, queueDepth int) *Scheduler {
	s := &Scheduler{
		workers:    workersPerPriority,
		registry:   newRegistry(),
		blockerSem: make(chan struct{}, 1),
		cancels:    make(map[uint64]context.CancelFunc),
		debounce:   500 * time.Millisecond,
	}
	for i := range s.queues {
		s.queues[i] = make(chan job, queueDepth)
	}
	return s
}

// Start spawns the worker pools. Call Stop to shut them down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for p := range s.queues {
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.worker(ctx, Priority(p))
		}
	}
}

// Stop cancels all worker goroutines and waits for them to exit.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// worker drains queue[priority]. Each priority owns its own bounded pool
// (spec.md §4.5: "a bounded worker pool per priority"), so a backlog at
// one priority never blocks another's dedicated workers — High gets
// through-put guarantees by having its own capacity, not by preempting
// Low/Normal jobs already in flight.
func (s *Scheduler) worker(ctx context.Context, priority Priority) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queues[priority]:
			s.run(ctx, j)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j job) {
	t := j.task
	t.Stage = Dispatched

	jobCtx, cancel := context.WithCancel(ctx)
	s.cancelsMu.Lock()
	s.cancels[t.ID] = cancel
	s.cancelsMu.Unlock()

	outcome, err := j.run(jobCtx, t)

	s.cancelsMu.Lock()
	delete(s.cancels, t.ID)
	s.cancelsMu.Unlock()
	cancel()

	if jobCtx.Err() != nil && outcome != Succ {
		outcome = Cancel
	}
	t.Outcome = outcome
	t.Err = err
	if err != nil {
		t.Log = append(t.Log, err.Error())
	}
	s.registry.tryRemove(t.ID, Dispatched, outcome == Cancel)
}

// Cancel requests cancellation of the task identified by id, if it is
// currently dispatched to a worker. The worker's job.run closure observes
// this via ctx.Done() and is responsible for cleaning up any tmp files it
// created (e.g. pasteFile removes its tmp-then-rename file on ctx
// cancellation) before returning, per spec.md §4.5's "Ctrl-c on the tasks
// popup transitions it to Cancel with cleanup of tmp files". Returns false
// if id is unknown or already terminal.
func (s *Scheduler) Cancel(id uint64) bool {
	s.cancelsMu.Lock()
	cancel, ok := s.cancels[id]
	s.cancelsMu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// Enqueue schedules run under name at priority, returning the new Task's
// id. Enqueue never blocks: per spec.md §4.5, "overflow uses back-
// pressure (try_send + Low priority shedding)" — a full Low queue drops
// the oldest queued Low job to make room; a full Normal/High queue
// rejects the new job outright (ok=false).
func (s *Scheduler) Enqueue(priority Priority, name string, run func(ctx context.Context, t *Task) (Outcome, error)) (id uint64, ok bool) {
	t := s.registry.add(name)
	j := job{task: t, run: run}

	select {
	case s.queues[priority] <- j:
		return t.ID, true
	default:
	}

	if priority == Low {
		select {
		case <-s.queues[Low]: // shed the oldest queued Low job
		default:
		}
		select {
		case s.queues[Low] <- j:
			return t.ID, true
		default:
		}
	}

	s.registry.tryRemove(t.ID, Hooked, true)
	return 0, false
}

// SetHook registers a terminal-state hook for id, run once the task's
// stage reaches Hooked (spec.md §4.5: "hooks: id -> FnOnce(cancelled) ->
// Future<()>, run on terminal state").
func (s *Scheduler) SetHook(id uint64, h Hook) { s.registry.setHook(id, h) }

// Task returns the live Task for id, if it's still tracked.
func (s *Scheduler) Task(id uint64) (*Task, bool) { return s.registry.get(id) }

// Ongoing returns every currently tracked task.
func (s *Scheduler) Ongoing() []*Task { return s.registry.values() }

// TaskSummaryTotal is the progress aggregator's output, at most emitted
// once per 500ms per spec.md §4.5.
type TaskSummaryTotal struct {
	Total   int
	Success int
	Failed  int
	Percent float64
}

// Progress computes the aggregate TaskSummaryTotal across all ongoing
// tasks, returning ok=false if called again before the 500ms debounce
// window has elapsed.
func (s *Scheduler) Progress(now time.Time) (TaskSummaryTotal, bool) {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	if now.Sub(s.lastProgress) < s.debounce {
		return TaskSummaryTotal{}, false
	}
	s.lastProgress = now

	tasks := s.registry.values()
	var total TaskSummaryTotal
	var doneSum, todoSum uint64
	for _, t := range tasks {
		total.Total++
		switch t.Outcome {
		case Succ:
			total.Success++
		case Fail:
			total.Failed++
		}
		doneSum += t.Done
		todoSum += t.Todo
	}
	if todoSum > 0 {
		total.Percent = float64(doneSum) / float64(todoSum) * 100
	} else if total.Total > 0 {
		total.Percent = 100
	}
	return total, true
}

// AcquireBlocker claims the global blocker semaphore for a Process/block
// task, suspending the TUI for the caller's duration (spec.md §4.5).
// ok is false if already held.
func (s *Scheduler) AcquireBlocker() (release func(), ok bool) {
	select {
	case s.blockerSem <- struct{}{}:
		return func() { <-s.blockerSem }, true
	default:
		return func() {}, false
	}
}

// NewTaskID generates a task-scoped correlation id for logging, since
// spec.md's `id` field is process-local but long-running prework/process
// tasks benefit from a stable external handle.
func NewTaskID() string { return uuid.NewString() }
