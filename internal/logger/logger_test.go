package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir, false)
	require.NoError(t, err)

	Info("[TEST] hello %s", "world")
	Debug("[TEST] hidden")
	SetDebug(true)
	Debug("[TEST] visible")
	SetDebug(false)
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "INFO [TEST] hello world")
	assert.Contains(t, content, "DEBUG [TEST] visible")
	assert.NotContains(t, content, "hidden")
}

func TestCloseWithoutInit(t *testing.T) {
	assert.NotPanics(t, Close)
}
