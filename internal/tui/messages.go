package tui

import (
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
)

// devicesLoadedMsg carries a full snapshot of devices and their bindings.
type devicesLoadedMsg struct {
	devices    []svcl.Device
	bindings   map[string]bindings.Binding
	current    string
	registered []string
	err        error
}

type bindingUpdatedMsg struct {
	deviceID string
	binding  bindings.Binding
	err      error
}

type hotkeyRecordedMsg struct {
	deviceID string
	hotkey   string
	ok       bool
	err      error
}

type savedMsg struct {
	registered []string
	err        error
}

type clearedMsg struct {
	err error
}

// daemonEventMsg is a push from a running daemon.
type daemonEventMsg struct {
	event ipc.Event
}

// eventsClosedMsg is sent once the daemon connection is gone.
type eventsClosedMsg struct{}
