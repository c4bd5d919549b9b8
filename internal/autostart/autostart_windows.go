//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/bezmoradi/sinkswitch/internal/logger"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// Enabled reports whether the login item is registered for this executable.
func Enabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	value, _, err := k.GetStringValue(ValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read run value: %w", err)
	}

	exe, err := executable()
	if err != nil {
		return true, nil
	}
	return value == Command(exe), nil
}

// Set registers or removes the login item.
func Set(enabled bool) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	if !enabled {
		if err := k.DeleteValue(ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return fmt.Errorf("delete run value: %w", err)
		}
		logger.Info("[AUTOSTART] Login item removed")
		return nil
	}

	exe, err := executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := k.SetStringValue(ValueName, Command(exe)); err != nil {
		return fmt.Errorf("write run value: %w", err)
	}
	logger.Info("[AUTOSTART] Login item registered for %s", exe)
	return nil
}
