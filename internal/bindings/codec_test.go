package bindings

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func TestDecodeOrderedRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[]`, `"x"`, ``, `{"a":1}`} {
		_, _, err := decodeOrdered([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestEncodeDecodeKeepsOrder(t *testing.T) {
	entries := []Entry{
		{DeviceID: "{0.0.0.00000000}.{b}", Binding: Binding{Hotkey: "F2", Enabled: true, Timestamp: 2}},
		{DeviceID: "{0.0.0.00000000}.{a}", Binding: Binding{Hotkey: "F1", Timestamp: 1}},
	}

	data, err := encodeOrdered(entries)
	require.NoError(t, err)

	order, decoded, err := decodeOrdered(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"{0.0.0.00000000}.{b}", "{0.0.0.00000000}.{a}"}, order)
	assert.Equal(t, entries[1].Binding, decoded["{0.0.0.00000000}.{a}"])
}

func TestEncodeEmpty(t *testing.T) {
	data, err := encodeOrdered(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
