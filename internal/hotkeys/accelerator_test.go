package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccelerator(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ctrl+Alt+F1", "Ctrl+Alt+F1"},
		{"alt+ctrl+f1", "Ctrl+Alt+F1"},
		{"CommandOrControl+Shift+a", "Ctrl+Shift+A"},
		{"Super+Space", "Win+Space"},
		{"MediaTrackNext", "MediaNextTrack"},
		{"Ctrl+MediaPlayPause", "Ctrl+MediaPlayPause"},
		{"Ctrl++", "Ctrl+Plus"},
		{" Shift + Esc ", "Shift+Escape"},
		{"F24", "F24"},
		{"Ctrl+/", "Ctrl+/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAcceleratorErrors(t *testing.T) {
	for _, input := range []string{"", "Ctrl", "Ctrl+Alt", "Hyper+F1", "Ctrl+F99", "Ctrl+Banana"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAccelerator(input)
			assert.Error(t, err)
		})
	}
}

func TestAcceleratorModifierOrder(t *testing.T) {
	accel, err := ParseAccelerator("Shift+Ctrl+F1")
	require.NoError(t, err)

	assert.Equal(t, []Modifier{ModCtrl, ModShift}, accel.Modifiers)
}

func TestVirtualKey(t *testing.T) {
	tests := map[string]uint16{
		"A":              0x41,
		"0":              0x30,
		"F1":             0x70,
		"F12":            0x7B,
		"MediaPlayPause": 0xB3,
		"Space":          0x20,
	}
	for key, want := range tests {
		got, ok := VirtualKey(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := VirtualKey("Nope")
	assert.False(t, ok)
}
