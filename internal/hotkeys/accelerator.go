package hotkeys

import (
	"fmt"
	"strings"
)

// Modifier is a canonical modifier name.
type Modifier string

const (
	ModCtrl  Modifier = "Ctrl"
	ModAlt   Modifier = "Alt"
	ModShift Modifier = "Shift"
	ModWin   Modifier = "Win"
)

var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModWin}

var modifierAliases = map[string]Modifier{
	"ctrl":             ModCtrl,
	"control":          ModCtrl,
	"commandorcontrol": ModCtrl,
	"cmdorctrl":        ModCtrl,
	"alt":              ModAlt,
	"option":           ModAlt,
	"altgr":            ModAlt,
	"shift":            ModShift,
	"win":              ModWin,
	"super":            ModWin,
	"meta":             ModWin,
	"cmd":              ModWin,
	"command":          ModWin,
}

// Accelerator is a parsed hotkey string.
type Accelerator struct {
	Modifiers []Modifier
	Key       string
}

// String renders the accelerator in canonical form, e.g. "Ctrl+Alt+F1".
func (a Accelerator) String() string {
	parts := make([]string, 0, len(a.Modifiers)+1)
	for _, m := range a.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, a.Key)
	return strings.Join(parts, "+")
}

// ParseAccelerator splits a hotkey string such as "Ctrl+Alt+F1" into
// modifiers and a key. Modifier spelling and order are normalized; the key
// must be one the OS backend can register.
func ParseAccelerator(s string) (Accelerator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Accelerator{}, fmt.Errorf("empty hotkey")
	}

	// "Ctrl++" means Ctrl and the plus key.
	if strings.HasSuffix(s, "++") {
		s = strings.TrimSuffix(s, "++") + "+Plus"
	}

	parts := strings.Split(s, "+")
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if _, isMod := modifierAliases[strings.ToLower(keyPart)]; isMod || keyPart == "" {
		return Accelerator{}, fmt.Errorf("hotkey %q has no key", s)
	}

	key, ok := canonicalKey(keyPart)
	if !ok {
		return Accelerator{}, fmt.Errorf("unsupported key %q in hotkey %q", keyPart, s)
	}

	seen := map[Modifier]bool{}
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return Accelerator{}, fmt.Errorf("unsupported modifier %q in hotkey %q", part, s)
		}
		seen[mod] = true
	}

	accel := Accelerator{Key: key}
	for _, m := range modifierOrder {
		if seen[m] {
			accel.Modifiers = append(accel.Modifiers, m)
		}
	}
	return accel, nil
}

// Normalize rewrites a hand-typed hotkey into canonical form.
func Normalize(s string) (string, error) {
	accel, err := ParseAccelerator(s)
	if err != nil {
		return "", err
	}
	return accel.String(), nil
}
