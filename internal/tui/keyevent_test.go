package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
)

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want hotkeys.KeyEvent
	}{
		{"rune", runes("a"), hotkeys.KeyEvent{Key: "a"}},
		{"upper rune", runes("A"), hotkeys.KeyEvent{Key: "A", Shift: true}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, hotkeys.KeyEvent{Key: "x", Alt: true}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, hotkeys.KeyEvent{Key: " "}},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, hotkeys.KeyEvent{Key: "F5"}},
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlK}, hotkeys.KeyEvent{Key: "k", Ctrl: true}},
		{"ctrl shift arrow", tea.KeyMsg{Type: tea.KeyCtrlShiftLeft}, hotkeys.KeyEvent{Key: "ArrowLeft", Ctrl: true, Shift: true}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, hotkeys.KeyEvent{Key: "PageDown"}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, hotkeys.KeyEvent{Key: "Escape"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyEvent(tt.msg)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyEventRecordsCanonicalHotkey(t *testing.T) {
	ev, ok := keyEvent(tea.KeyMsg{Type: tea.KeyCtrlShiftUp})
	assert.True(t, ok)

	hk, ok := hotkeys.Record(ev)
	assert.True(t, ok)
	assert.Equal(t, "Ctrl+Shift+Up", hk)
}
