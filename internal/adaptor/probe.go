package adaptor

import (
	"os"
	"strings"

	termimg "github.com/blacktop/go-termimg"
)

// Probe resolves the ordered protocol-preference list for the current
// terminal emulator, per spec.md §4.7's table. It consults environment
// variables first (a synchronous DA1/DA2 round-trip is the spec's
// fallback mechanism, represented here by probeViaGoTermimg for emulators
// the env-var table doesn't recognize) and always keeps a working
// fallback so start-up never blocks past its 100ms budget.
func Probe(env func(string) string) []Kind {
	if env == nil {
		env = os.Getenv
	}

	term := env("TERM")
	program := env("TERM_PROGRAM")

	switch {
	case env("KITTY_WINDOW_ID") != "", strings.Contains(term, "kitty"), strings.Contains(term, "ghostty"):
		return []Kind{Kgp}
	case env("KONSOLE_VERSION") != "":
		return []Kind{KgpOld}
	case program == "iTerm.app", program == "WezTerm", program == "vscode",
		program == "Tabby", program == "Hyper", program == "rio", program == "WarpTerminal":
		return []Kind{Iip, SixelKind}
	case strings.Contains(term, "foot"), program == "BlackBox", program == "Microsoft Terminal":
		return []Kind{SixelKind}
	}

	if k, ok := probeViaGoTermimg(); ok {
		return []Kind{k}
	}

	// Unrecognized emulator: fall back to the most broadly supported
	// protocol rather than failing Adaptor.New outright.
	return []Kind{SixelKind}
}

// InTmux reports whether the process is running inside an outer tmux, per
// spec.md §4.7's "Tmux (outer)" row: every emitted escape sequence must be
// wrapped in the DCS passthrough envelope.
func InTmux(env func(string) string) bool {
	if env == nil {
		env = os.Getenv
	}
	return env("TMUX") != ""
}

// probeViaGoTermimg asks go-termimg to detect the best-supported protocol
// directly; used only as the last resort for an emulator signal the
// env-var table above doesn't recognize (spec.md §4.7's "Unknown, with
// CSI capability bits" row).
func probeViaGoTermimg() (Kind, bool) {
	detected := termimg.Detect()
	switch detected {
	case termimg.Kitty:
		return Kgp, true
	case termimg.ITerm2:
		return Iip, true
	case termimg.Sixel:
		return SixelKind, true
	default:
		return 0, false
	}
}
