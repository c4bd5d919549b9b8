package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/bezmoradi/sinkswitch/internal/autostart"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/stats"
	"github.com/bezmoradi/sinkswitch/internal/version"
)

// Autostart reads and changes the login item.
type Autostart interface {
	Enabled() (bool, error)
	Set(enabled bool) error
}

type osAutostart struct{}

func (osAutostart) Enabled() (bool, error) { return autostart.Enabled() }
func (osAutostart) Set(enabled bool) error { return autostart.Set(enabled) }

// handlers binds the IPC method table to a service.
type handlers struct {
	service   *Service
	server    *ipc.Server
	autostart Autostart
	stats     *stats.Manager
	status    func() Status
}

func (h *handlers) register() {
	s := h.server
	s.Register(MethodGetDevices, h.getDevices)
	s.Register(MethodGetCurrentDevice, h.getCurrentDevice)
	s.Register(MethodRegisterHotkeys, h.noResult(h.service.RegisterHotkeys))
	s.Register(MethodUnregisterHotkeys, h.noResult(h.service.UnregisterHotkeys))
	s.Register(MethodGetBinding, h.getBinding)
	s.Register(MethodUpdateBinding, h.updateBinding)
	s.Register(MethodEnabledBindings, h.enabledBindings)
	s.Register(MethodSaveBindings, h.noResult(h.service.SaveBindings))
	s.Register(MethodLoadBindings, h.noResult(h.service.LoadBindings))
	s.Register(MethodClearBindings, h.noResult(h.service.ClearBindings))
	s.Register(MethodRecordHotkey, h.recordHotkey)
	s.Register(MethodRegisteredHotkeys, h.registeredHotkeys)
	s.Register(MethodGetAutostart, h.getAutostart)
	s.Register(MethodSetAutostart, h.setAutostart)
	s.Register(MethodRefreshDevices, h.refreshDevices)
	s.Register(MethodStatus, h.getStatus)
	s.Register(MethodStats, h.getStats)
}

func (h *handlers) noResult(fn func(context.Context) error) ipc.HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return nil, fn(ctx)
	}
}

func (h *handlers) getDevices(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.FetchDevices(ctx)
}

func (h *handlers) getCurrentDevice(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.CurrentDevice(ctx)
}

func (h *handlers) getBinding(ctx context.Context, params json.RawMessage) (any, error) {
	var p deviceParams
	if err := ipc.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.DeviceID == "" {
		return nil, ipc.InvalidParams(errors.New("deviceId is required"))
	}
	return h.service.GetBinding(ctx, p.DeviceID)
}

func (h *handlers) updateBinding(ctx context.Context, params json.RawMessage) (any, error) {
	var p updateParams
	if err := ipc.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.DeviceID == "" {
		return nil, ipc.InvalidParams(errors.New("deviceId is required"))
	}
	return h.service.UpdateBinding(ctx, p.DeviceID, p.Update)
}

func (h *handlers) enabledBindings(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.EnabledBindings(ctx)
}

func (h *handlers) recordHotkey(ctx context.Context, params json.RawMessage) (any, error) {
	var p recordParams
	if err := ipc.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.DeviceID == "" {
		return nil, ipc.InvalidParams(errors.New("deviceId is required"))
	}
	hk, ok, err := h.service.RecordHotkey(ctx, p.DeviceID, p.Event)
	if err != nil {
		return nil, err
	}
	return recordResult{Hotkey: hk, OK: ok}, nil
}

func (h *handlers) registeredHotkeys(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.RegisteredHotkeys(ctx)
}

func (h *handlers) getAutostart(context.Context, json.RawMessage) (any, error) {
	enabled, err := h.autostart.Enabled()
	if err != nil {
		return nil, err
	}
	return autostartParams{Enabled: enabled}, nil
}

func (h *handlers) setAutostart(_ context.Context, params json.RawMessage) (any, error) {
	var p autostartParams
	if err := ipc.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := h.autostart.Set(p.Enabled); err != nil {
		if errors.Is(err, autostart.ErrUnsupported) {
			return nil, &ipc.Error{Code: ipc.CodeUnsupported, Message: err.Error()}
		}
		return nil, err
	}
	return p, nil
}

// refreshDevices re-reads the device list and tells every client about it.
func (h *handlers) refreshDevices(ctx context.Context, _ json.RawMessage) (any, error) {
	devices, err := h.service.FetchDevices(ctx)
	if err != nil {
		return nil, err
	}
	h.server.Notify(EventDevicesRefresh, devices)
	return devices, nil
}

func (h *handlers) getStatus(context.Context, json.RawMessage) (any, error) {
	if h.status != nil {
		return h.status(), nil
	}
	return Status{Version: version.VERSION, PID: os.Getpid(), Clients: h.server.ClientCount()}, nil
}

func (h *handlers) getStats(_ context.Context, params json.RawMessage) (any, error) {
	if h.stats == nil {
		return nil, errors.New("switch history is not available")
	}
	p := statsParams{Days: 7}
	if err := ipc.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Days <= 0 {
		return nil, ipc.InvalidParams(errors.New("days must be positive"))
	}
	return h.stats.Summary(p.Days)
}
