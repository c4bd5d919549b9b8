// Package autostart registers the daemon as a per-user login item.
package autostart

import (
	"errors"
	"os"
	"path/filepath"
)

// ValueName is the name of the login item.
const ValueName = "sinkswitch"

// HiddenFlag is appended to the registered command line.
const HiddenFlag = "--hidden"

// ErrUnsupported is returned on platforms without login item support.
var ErrUnsupported = errors.New("autostart is not supported on this platform")

// Command returns the command line registered for exe.
func Command(exe string) string {
	return `"` + exe + `" ` + HiddenFlag
}

// executable resolves the running binary, following symlinks.
func executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
