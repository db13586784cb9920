package scheduler

import "context"

// SubmitPaste enqueues a paste (copy or move) task at Normal priority,
// the scheduler-facing entry point for spec.md §4.5's File/paste op.
func (s *Scheduler) SubmitPaste(opt PasteOpt) (id uint64, ok bool) {
	return s.Enqueue(Normal, "paste", func(ctx context.Context, t *Task) (Outcome, error) {
		t.Found, t.Todo = 1, 1
		if err := pasteFile(ctx, opt, func(n int64) { t.Done = uint64(n) }); err != nil {
			if ctx.Err() != nil {
				return Cancel, nil
			}
			return Fail, err
		}
		t.Processed, t.Done = 1, t.Todo
		return Succ, nil
	})
}

// SubmitLink enqueues a symlink-creation task at Normal priority.
func (s *Scheduler) SubmitLink(opt LinkOpt) (id uint64, ok bool) {
	return s.Enqueue(Normal, "link", func(ctx context.Context, t *Task) (Outcome, error) {
		if ctx.Err() != nil {
			return Cancel, nil
		}
		t.Found, t.Todo = 1, 1
		if err := linkFile(opt); err != nil {
			return Fail, err
		}
		t.Processed, t.Done = 1, 1
		return Succ, nil
	})
}

// SubmitHardlink enqueues a hardlink-creation task at Normal priority.
func (s *Scheduler) SubmitHardlink(src, dst string) (id uint64, ok bool) {
	return s.Enqueue(Normal, "hardlink", func(ctx context.Context, t *Task) (Outcome, error) {
		if ctx.Err() != nil {
			return Cancel, nil
		}
		t.Found, t.Todo = 1, 1
		if err := hardlinkFile(src, dst); err != nil {
			return Fail, err
		}
		t.Processed, t.Done = 1, 1
		return Succ, nil
	})
}

// SubmitDelete enqueues a permanent-delete task at High priority, since
// spec.md §4.5 prioritizes delete/trash above paste/link so a user's
// "get rid of this now" is never stuck behind a large copy.
func (s *Scheduler) SubmitDelete(path string) (id uint64, ok bool) {
	return s.Enqueue(High, "delete", func(ctx context.Context, t *Task) (Outcome, error) {
		if ctx.Err() != nil {
			return Cancel, nil
		}
		t.Found, t.Todo = 1, 1
		if err := deleteFile(path); err != nil {
			return Fail, err
		}
		t.Processed, t.Done = 1, 1
		return Succ, nil
	})
}

// SubmitTrash enqueues a move-to-trash task at High priority. No
// platform trash library is present anywhere in the example pack (see
// DESIGN.md), so trashing moves the target into a per-user trash
// directory alongside its original basename, falling back to permanent
// delete only if that move fails outright (e.g. cross-device trash dir
// missing).
func (s *Scheduler) SubmitTrash(path, trashDir string) (id uint64, ok bool) {
	return s.Enqueue(High, "trash", func(ctx context.Context, t *Task) (Outcome, error) {
		if ctx.Err() != nil {
			return Cancel, nil
		}
		t.Found, t.Todo = 1, 1
		if err := trashFile(path, trashDir); err != nil {
			return Fail, err
		}
		t.Processed, t.Done = 1, 1
		return Succ, nil
	})
}
