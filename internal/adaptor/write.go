package adaptor

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"
)

// termWriter guards every escape-sequence write with a lock (spec.md §5:
// "the terminal writer is guarded by a lock; all escape-sequence writes
// acquire it") and wraps cursor moves in a save/restore pair per §4.7.
var (
	termMu  sync.Mutex
	termOut io.Writer = os.Stdout
)

// SetOutput redirects where protocol writes go; tests substitute a buffer.
func SetOutput(w io.Writer) { termMu.Lock(); termOut = w; termMu.Unlock() }

// tmuxWrap is set by the Adaptor constructor when running inside an outer
// tmux, per spec.md §6's wire format: every sequence below must be
// wrapped in `\ePtmux;\e\e…\e\\` before reaching the real terminal.
var tmuxWrap = false

// SetTmuxPassthrough toggles the tmux DCS passthrough wrap for every
// subsequent write.
func SetTmuxPassthrough(on bool) { tmuxWrap = on }

func wrapTmux(seq string) string {
	if !tmuxWrap {
		return seq
	}
	escaped := ""
	for i := 0; i < len(seq); i++ {
		if seq[i] == '\x1b' {
			escaped += "\x1b\x1b"
		} else {
			escaped += string(seq[i])
		}
	}
	return "\x1bPtmux;" + escaped + "\x1b\\"
}

// writeSequence emits seq (tmux-wrapped if applicable) under the terminal
// lock, saving and restoring the cursor around it so the write never
// disturbs the caller's cursor position (spec.md §4.7: "cursor moves
// around writes are wrapped in a save/restore pair; on Windows the
// restore is preceded by a 1ms sleep").
func writeSequence(seq string) error {
	termMu.Lock()
	defer termMu.Unlock()

	if _, err := io.WriteString(termOut, "\x1b7"); err != nil { // DECSC save
		return err
	}
	_, err := io.WriteString(termOut, wrapTmux(seq))
	if runtime.GOOS == "windows" {
		time.Sleep(time.Millisecond)
	}
	if _, rerr := io.WriteString(termOut, "\x1b8"); rerr != nil && err == nil { // DECRC restore
		err = rerr
	}
	return err
}
