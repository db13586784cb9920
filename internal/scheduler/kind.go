package scheduler

// Kind groups the task categories from spec.md §4.5.
type Kind uint8

const (
	KindFile Kind = iota
	KindPlugin
	KindPrework
	KindProcess
)

// FileOp names a File-kind task's operation.
type FileOp uint8

const (
	FilePaste FileOp = iota
	FileLink
	FileHardlink
	FileDelete
	FileTrash
)

// PasteOpt configures a paste (copy or move) task.
type PasteOpt struct {
	Move   bool
	Force  bool          // overwrite an existing destination
	Follow bool          // follow symlinks rather than recreating them
	Atomic bool          // unlink the destination before rename, not before write
	Src    string
	Dst    string
}

// LinkOpt configures a symlink-creation task.
type LinkOpt struct {
	Relative bool
	Src      string
	Dst      string
}

// PreworkOp names a Prework-kind task's operation.
type PreworkOp uint8

const (
	PreworkFetch PreworkOp = iota // ecosystem enrichment (e.g. git status)
	PreworkLoad                   // previewer priming
	PreworkSize                   // directory sizing
)

// ProcessOp names a Process-kind task's operation.
type ProcessOp uint8

const (
	ProcessBlock  ProcessOp = iota // foreground, suspends the TUI via the blocker semaphore
	ProcessOrphan                  // detached, fire-and-forget
	ProcessBg                      // piped, streams stdout/stderr into the task log
)

// ProcessOpt configures a Process-kind task.
type ProcessOpt struct {
	Op   ProcessOp
	Cmd  string
	Args []string
}
