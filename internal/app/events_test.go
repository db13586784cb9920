package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewEventSink_BlankCSVDisabled(t *testing.T) {
	if s := newEventSink(&bytes.Buffer{}, ""); s != nil {
		t.Errorf("newEventSink(\"\") = %+v, want nil", s)
	}
	if s := newEventSink(&bytes.Buffer{}, "   "); s != nil {
		t.Errorf("newEventSink(whitespace) = %+v, want nil", s)
	}
}

func TestEventSink_EmitsAllowedOnly(t *testing.T) {
	var buf bytes.Buffer
	s := newEventSink(&buf, "arrow, paste")

	s.emit("hover", "hover abc")
	if buf.Len() != 0 {
		t.Fatalf("emit(hover) should be filtered out, got %q", buf.String())
	}

	s.emit("arrow", "arrow 1")
	if buf.Len() == 0 {
		t.Fatal("emit(arrow) should have written a line, got nothing")
	}

	var line eventLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("emitted line is not valid JSON: %v (%q)", err, buf.String())
	}
	if line.Kind != "arrow" || line.Cmd != "arrow 1" {
		t.Errorf("decoded line = %+v, want Kind=arrow Cmd=\"arrow 1\"", line)
	}
}

func TestEventSink_WildcardAllowsEverything(t *testing.T) {
	var buf bytes.Buffer
	s := newEventSink(&buf, "*")
	s.emit("anything", "anything")
	if buf.Len() == 0 {
		t.Fatal("wildcard sink should have emitted a line")
	}
}

func TestEventSink_NilSinkIsInert(t *testing.T) {
	var s *eventSink
	s.emit("arrow", "arrow 1") // must not panic
}

func TestEventSink_MultipleLinesAreNewlineSeparated(t *testing.T) {
	var buf bytes.Buffer
	s := newEventSink(&buf, "*")
	s.emit("a", "a")
	s.emit("b", "b")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
}
