package app

import (
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
)

// IPC method names.
const (
	MethodGetDevices        = "svcl.getDevices"
	MethodGetCurrentDevice  = "svcl.getCurrentDevice"
	MethodRegisterHotkeys   = "svcl.registerHotkeys"
	MethodUnregisterHotkeys = "svcl.unregisterHotkeys"
	MethodGetBinding        = "bindings.get"
	MethodUpdateBinding     = "bindings.update"
	MethodEnabledBindings   = "bindings.enabled"
	MethodSaveBindings      = "bindings.save"
	MethodLoadBindings      = "bindings.load"
	MethodClearBindings     = "bindings.clear"
	MethodRecordHotkey      = "bindings.record"
	MethodRegisteredHotkeys = "bindings.registered"
	MethodGetAutostart      = "autostart.get"
	MethodSetAutostart      = "autostart.set"
	MethodRefreshDevices    = "devices.refresh"
	MethodStatus            = "daemon.status"
	MethodStats             = "stats.summary"
)

// IPC push events.
const (
	EventDeviceSwitched = "device.switched"
	EventDevicesRefresh = "devices.refresh"
)

type deviceParams struct {
	DeviceID string `json:"deviceId"`
}

type updateParams struct {
	DeviceID string          `json:"deviceId"`
	Update   bindings.Update `json:"update"`
}

type recordParams struct {
	DeviceID string           `json:"deviceId"`
	Event    hotkeys.KeyEvent `json:"event"`
}

type recordResult struct {
	Hotkey string `json:"hotkey"`
	OK     bool   `json:"ok"`
}

type autostartParams struct {
	Enabled bool `json:"enabled"`
}

type statsParams struct {
	Days int `json:"days"`
}

// Status describes a running daemon.
type Status struct {
	Version string   `json:"version"`
	PID     int      `json:"pid"`
	Hotkeys []string `json:"hotkeys"`
	Clients int      `json:"clients"`
	Storage string   `json:"storage"`
	Svcl    string   `json:"svcl"`
}

// SwitchNotice is the payload of EventDeviceSwitched.
type SwitchNotice struct {
	Hotkey string `json:"hotkey"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
}
