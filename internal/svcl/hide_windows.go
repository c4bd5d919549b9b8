//go:build windows

package svcl

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// hideWindow keeps svcl from flashing a console window on every hotkey press.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
