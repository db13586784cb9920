// Package bus implements the Cmd/Event model and the single ordered event
// queue described in spec.md §4.1. The app loop (internal/app) is a
// charmbracelet/bubbletea tea.Program: bubbletea's Update already dispatches
// tea.Msg values one at a time in strict FIFO order, so Bus is a thin
// generalization of the teacher's internal/bridge/events.go EventBus — one
// process-wide queue instead of per-type listener lists — sitting on top of
// tea.Cmd/tea.Msg rather than reimplementing a channel runtime.
package bus

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind enumerates the closed set of value types a Cmd argument may
// hold.
type ValueKind uint8

const (
	VNil ValueKind = iota
	VBool
	VInt
	VFloat
	VString
	VURL
	VList
	VDict
)

// Value is a tagged union mirroring spec.md §4.1's Cmd argument values.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	B    bool
	I    int64
	F    float64
	S    string
	List []Value
	Dict map[string]Value
}

func Nil() Value           { return Value{Kind: VNil} }
func Bool(b bool) Value    { return Value{Kind: VBool, B: b} }
func Int(i int64) Value    { return Value{Kind: VInt, I: i} }
func Float(f float64) Value { return Value{Kind: VFloat, F: f} }
func Str(s string) Value   { return Value{Kind: VString, S: s} }

func (v Value) String() string {
	switch v.Kind {
	case VNil:
		return ""
	case VBool:
		if v.B {
			return "true"
		}
		return "false"
	case VInt:
		return strconv.FormatInt(v.I, 10)
	case VFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case VString, VURL:
		return v.S
	case VList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Cmd is a parsed, reusable command invocation: a name plus ordered
// positional args and named (flag) args, as described in spec.md §4.1.
// Cmds parsed from keymap strings are cheaply cloneable since Value only
// holds scalars/slices/maps of scalars.
type Cmd struct {
	Name     string
	Args     []Value
	Named    map[string]Value
	Payload  any // opaque, used only for plugin-originated data
}

// Arg returns the i'th positional argument, or the zero Value if absent.
func (c Cmd) Arg(i int) Value {
	if i < 0 || i >= len(c.Args) {
		return Value{}
	}
	return c.Args[i]
}

// Named lookup helper.
func (c Cmd) Get(name string) (Value, bool) {
	v, ok := c.Named[name]
	return v, ok
}

// Clone returns a deep-enough copy safe to hand to multiple consumers; Cmds
// are intended to be parsed once (from a keymap string) and replayed many
// times, so Clone only needs to protect the Named map and Payload pointer
// identity, never the Value contents (which are themselves immutable).
func (c Cmd) Clone() Cmd {
	out := Cmd{Name: c.Name, Args: append([]Value(nil), c.Args...), Payload: c.Payload}
	if c.Named != nil {
		out.Named = make(map[string]Value, len(c.Named))
		for k, v := range c.Named {
			out.Named[k] = v
		}
	}
	return out
}

func (c Cmd) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, a := range c.Args {
		b.WriteByte(' ')
		if a.Kind == VString {
			b.WriteString(strconv.Quote(a.S))
		} else {
			b.WriteString(a.String())
		}
	}
	keys := make([]string, 0, len(c.Named))
	for k := range c.Named {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " --%s=%s", k, c.Named[k].String())
	}
	return b.String()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
