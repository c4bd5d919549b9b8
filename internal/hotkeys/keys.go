package hotkeys

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Win32 virtual-key codes for every key name an accelerator may end with.
var keyCodes = map[string]uint16{
	"Space":     0x20,
	"Enter":     0x0D,
	"Tab":       0x09,
	"Escape":    0x1B,
	"Backspace": 0x08,
	"Delete":    0x2E,
	"Insert":    0x2D,
	"Home":      0x24,
	"End":       0x23,
	"PageUp":    0x21,
	"PageDown":  0x22,
	"Left":      0x25,
	"Up":        0x26,
	"Right":     0x27,
	"Down":      0x28,

	"VolumeMute":         0xAD,
	"VolumeDown":         0xAE,
	"VolumeUp":           0xAF,
	"MediaNextTrack":     0xB0,
	"MediaPreviousTrack": 0xB1,
	"MediaStop":          0xB2,
	"MediaPlayPause":     0xB3,

	"Plus": 0xBB,
	";":    0xBA,
	"=":    0xBB,
	",":    0xBC,
	"-":    0xBD,
	".":    0xBE,
	"/":    0xBF,
	"`":    0xC0,
	"[":    0xDB,
	`\`:    0xDC,
	"]":    0xDD,
	"'":    0xDE,
}

// keyAliases maps lower-cased alternative spellings to canonical key names.
var keyAliases = map[string]string{
	"return":             "Enter",
	"esc":                "Escape",
	"del":                "Delete",
	"ins":                "Insert",
	"pgup":               "PageUp",
	"pgdn":               "PageDown",
	"arrowup":            "Up",
	"arrowdown":          "Down",
	"arrowleft":          "Left",
	"arrowright":         "Right",
	"mediatracknext":     "MediaNextTrack",
	"mediatrackprevious": "MediaPreviousTrack",
	"audiovolumeup":      "VolumeUp",
	"audiovolumedown":    "VolumeDown",
	"audiovolumemute":    "VolumeMute",
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		keyCodes[string(c)] = uint16(c)
	}
	for c := '0'; c <= '9'; c++ {
		keyCodes[string(c)] = uint16(c)
	}
	for i := 1; i <= 24; i++ {
		keyCodes[fmt.Sprintf("F%d", i)] = uint16(0x70 + i - 1)
	}
	for name := range keyCodes {
		if _, ok := keyAliases[strings.ToLower(name)]; !ok {
			keyAliases[strings.ToLower(name)] = name
		}
	}
}

// canonicalKey returns the canonical spelling of a key name.
func canonicalKey(name string) (string, bool) {
	if utf8.RuneCountInString(name) == 1 {
		upper := strings.ToUpper(name)
		_, ok := keyCodes[upper]
		return upper, ok
	}
	canonical, ok := keyAliases[strings.ToLower(name)]
	return canonical, ok
}

// VirtualKey returns the Win32 virtual-key code of a canonical key name.
func VirtualKey(key string) (uint16, bool) {
	vk, ok := keyCodes[key]
	return vk, ok
}
