package bus

import (
	"strconv"
	"strings"
)

// Parse reads a keymap command string of the form
//
//	name arg1 "quoted arg" --flag=value --bool
//
// into a Cmd. It is grounded in original_source/src/config/keymap/exec.rs's
// exec-string grammar and the teacher's internal/keymap/registry.go
// Binding.Command field, generalized into a small recursive-descent
// tokenizer instead of a single opaque string.
func Parse(s string) (Cmd, error) {
	toks, err := tokenize(s)
	if err != nil {
		return Cmd{}, err
	}
	if len(toks) == 0 {
		return Cmd{}, nil
	}
	c := Cmd{Name: toks[0]}
	for _, t := range toks[1:] {
		if strings.HasPrefix(t, "--") {
			kv := t[2:]
			if eq := strings.IndexByte(kv, '='); eq >= 0 {
				if c.Named == nil {
					c.Named = make(map[string]Value)
				}
				c.Named[kv[:eq]] = parseScalar(kv[eq+1:])
			} else {
				if c.Named == nil {
					c.Named = make(map[string]Value)
				}
				c.Named[kv] = Bool(true)
			}
			continue
		}
		c.Args = append(c.Args, parseScalar(t))
	}
	return c, nil
}

func parseScalar(s string) Value {
	if s == "true" {
		return Bool(true)
	}
	if s == "false" {
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return Str(s)
}

// tokenize splits on whitespace, honoring double-quoted segments.
func tokenize(s string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks, nil
}

// Format renders c back to its canonical keymap-string form. Format(Parse(s))
// is only guaranteed to equal a canonicalized s (property 2 in spec.md §8):
// argument order is preserved, named args are emitted in sorted order, and
// string args are always re-quoted, regardless of how the original string
// wrote them.
func Format(c Cmd) string { return c.String() }

// Canonicalize re-parses and re-formats s, producing the normal form that
// Format(Parse(s)) must equal.
func Canonicalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(c), nil
}
