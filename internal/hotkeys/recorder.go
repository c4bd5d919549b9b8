package hotkeys

import (
	"strings"
	"unicode/utf8"
)

// KeyEvent is a single key press as reported by a UI: the key name in the
// browser KeyboardEvent vocabulary ("a", "F1", "MediaTrackNext", "Control")
// plus the modifier state.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
}

var modifierKeys = map[string]bool{
	"Control":  true,
	"Alt":      true,
	"Shift":    true,
	"Meta":     true,
	"AltGraph": true,
}

// Record composes a hotkey string from a key press. It reports false while
// only modifier keys are held.
func Record(ev KeyEvent) (string, bool) {
	key := ev.Key
	if key == "" || modifierKeys[key] {
		return "", false
	}

	var parts []string
	if ev.Ctrl {
		parts = append(parts, string(ModCtrl))
	}
	if ev.Alt {
		parts = append(parts, string(ModAlt))
	}
	if ev.Shift {
		parts = append(parts, string(ModShift))
	}

	switch key {
	case " ":
		key = "Space"
	case "+":
		key = "Plus"
	}
	// Keys the OS backend knows get their canonical name, so a recorded
	// hotkey matches the same hotkey typed by hand.
	if canonical, ok := canonicalKey(key); ok {
		key = canonical
	} else if utf8.RuneCountInString(key) == 1 {
		key = strings.ToUpper(key)
	}

	return strings.Join(append(parts, key), "+"), true
}
