package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"testing"
)

func TestKeyFromMsg_PlainKey(t *testing.T) {
	k := keyFromMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if k.Code != "j" || k.Ctrl || k.Alt || k.Shift || k.Super {
		t.Errorf("keyFromMsg(j) = %+v, want Code=j with no modifiers", k)
	}
}

func TestKeyFromMsg_CtrlModifier(t *testing.T) {
	k := keyFromMsg(tea.KeyMsg{Type: tea.KeyCtrlA})
	if k.Code != "a" || !k.Ctrl {
		t.Errorf("keyFromMsg(ctrl+a) = %+v, want Code=a Ctrl=true", k)
	}
}

func TestKeyFromMsg_ShiftModifier(t *testing.T) {
	k := keyFromMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if k.Code != "tab" || !k.Shift {
		t.Errorf("keyFromMsg(shift+tab) = %+v, want Code=tab Shift=true", k)
	}
}

func TestKeyFromMsg_NamedKey(t *testing.T) {
	k := keyFromMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if k.Code != "esc" {
		t.Errorf("keyFromMsg(esc) = %+v, want Code=esc", k)
	}
}
