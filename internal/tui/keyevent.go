package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
)

// Terminal key names mapped to the KeyboardEvent names hotkeys.Record takes.
var terminalKeyNames = map[string]string{
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	"delete":    "Delete",
	"insert":    "Insert",
	"tab":       "Tab",
	"enter":     "Enter",
	"backspace": "Backspace",
	"esc":       "Escape",
}

// keyEvent converts a terminal key press into a hotkeys.KeyEvent. Keys the
// terminal reports without a usable name yield false.
func keyEvent(msg tea.KeyMsg) (hotkeys.KeyEvent, bool) {
	ev := hotkeys.KeyEvent{Alt: msg.Alt}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		if len(msg.Runes) != 1 {
			if msg.Type == tea.KeySpace {
				ev.Key = " "
				return ev, true
			}
			return ev, false
		}
		r := msg.Runes[0]
		ev.Key = string(r)
		ev.Shift = unicode.IsUpper(r)
		return ev, true
	}

	name := strings.TrimPrefix(msg.String(), "alt+")
	if name == "" {
		return ev, false
	}

	parts := strings.Split(name, "+")
	last := parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			ev.Ctrl = true
		case "shift":
			ev.Shift = true
		}
	}

	switch {
	case terminalKeyNames[last] != "":
		ev.Key = terminalKeyNames[last]
	case len(last) >= 2 && last[0] == 'f' && isDigits(last[1:]):
		ev.Key = "F" + last[1:]
	case len([]rune(last)) == 1:
		ev.Key = last
	default:
		return ev, false
	}
	return ev, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
