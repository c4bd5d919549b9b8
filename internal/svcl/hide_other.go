//go:build !windows

package svcl

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
