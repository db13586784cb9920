// Package xerr defines the closed error-kind hierarchy referenced across
// the codebase (config load, command dispatch, plugin execution, task
// failure, IO), wrapped with %w so callers can still errors.Is/errors.As
// through to the Kind, following the teacher's fmt.Errorf(...: %w, err)
// idiom.
package xerr

import "fmt"

// Kind classifies which subsystem an error originated in.
type Kind uint8

const (
	Config Kind = iota
	Command
	Plugin
	Task
	IO
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Command:
		return "command"
	case Plugin:
		return "plugin"
	case Task:
		return "task"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error wrapping an underlying cause.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "load keymap.toml"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the same Kind, so callers can write
// errors.Is(err, xerr.Task) style checks against the Kind values below.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Error lets a bare Kind itself satisfy the error interface for use with
// errors.Is(err, xerr.Task).
func (k Kind) Error() string { return k.String() }

// Wrap builds an *Error of the given kind around err, or returns nil if
// err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Configf wraps err as a Config-kind error, formatting op like fmt.Sprintf.
func Configf(err error, format string, args ...any) error {
	return Wrap(Config, fmt.Sprintf(format, args...), err)
}

// Commandf wraps err as a Command-kind error.
func Commandf(err error, format string, args ...any) error {
	return Wrap(Command, fmt.Sprintf(format, args...), err)
}

// Pluginf wraps err as a Plugin-kind error.
func Pluginf(err error, format string, args ...any) error {
	return Wrap(Plugin, fmt.Sprintf(format, args...), err)
}

// Taskf wraps err as a Task-kind error.
func Taskf(err error, format string, args ...any) error {
	return Wrap(Task, fmt.Sprintf(format, args...), err)
}

// IOf wraps err as an IO-kind error.
func IOf(err error, format string, args ...any) error {
	return Wrap(IO, fmt.Sprintf(format, args...), err)
}
