package app

import (
	"context"
	"errors"

	"github.com/bezmoradi/sinkswitch/internal/autostart"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/stats"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
)

// RemoteService forwards Backend calls to a running daemon.
type RemoteService struct {
	client *ipc.Client
}

var _ Backend = (*RemoteService)(nil)

func NewRemoteService(client *ipc.Client) *RemoteService {
	return &RemoteService{client: client}
}

// DialDaemon connects to the daemon at addr.
func DialDaemon(ctx context.Context, addr string) (*RemoteService, error) {
	client, err := ipc.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return NewRemoteService(client), nil
}

func (r *RemoteService) Close() error {
	return r.client.Close()
}

// Events delivers daemon pushes such as EventDeviceSwitched.
func (r *RemoteService) Events() <-chan ipc.Event {
	return r.client.Events()
}

func (r *RemoteService) FetchDevices(ctx context.Context) ([]svcl.Device, error) {
	var devices []svcl.Device
	err := r.client.Call(ctx, MethodGetDevices, nil, &devices)
	return devices, err
}

// RefreshDevices re-reads the device list and broadcasts it to all clients.
func (r *RemoteService) RefreshDevices(ctx context.Context) ([]svcl.Device, error) {
	var devices []svcl.Device
	err := r.client.Call(ctx, MethodRefreshDevices, nil, &devices)
	return devices, err
}

func (r *RemoteService) CurrentDevice(ctx context.Context) (string, error) {
	var id string
	err := r.client.Call(ctx, MethodGetCurrentDevice, nil, &id)
	return id, err
}

func (r *RemoteService) GetBinding(ctx context.Context, deviceID string) (bindings.Binding, error) {
	var b bindings.Binding
	err := r.client.Call(ctx, MethodGetBinding, deviceParams{DeviceID: deviceID}, &b)
	return b, err
}

func (r *RemoteService) UpdateBinding(ctx context.Context, deviceID string, u bindings.Update) (bindings.Binding, error) {
	var b bindings.Binding
	err := r.client.Call(ctx, MethodUpdateBinding, updateParams{DeviceID: deviceID, Update: u}, &b)
	return b, err
}

func (r *RemoteService) EnabledBindings(ctx context.Context) ([]bindings.Entry, error) {
	var entries []bindings.Entry
	err := r.client.Call(ctx, MethodEnabledBindings, nil, &entries)
	return entries, err
}

func (r *RemoteService) SaveBindings(ctx context.Context) error {
	return r.client.Call(ctx, MethodSaveBindings, nil, nil)
}

func (r *RemoteService) LoadBindings(ctx context.Context) error {
	return r.client.Call(ctx, MethodLoadBindings, nil, nil)
}

func (r *RemoteService) ClearBindings(ctx context.Context) error {
	return r.client.Call(ctx, MethodClearBindings, nil, nil)
}

func (r *RemoteService) RecordHotkey(ctx context.Context, deviceID string, ev hotkeys.KeyEvent) (string, bool, error) {
	var res recordResult
	err := r.client.Call(ctx, MethodRecordHotkey, recordParams{DeviceID: deviceID, Event: ev}, &res)
	return res.Hotkey, res.OK, err
}

func (r *RemoteService) RegisteredHotkeys(ctx context.Context) ([]string, error) {
	var hks []string
	err := r.client.Call(ctx, MethodRegisteredHotkeys, nil, &hks)
	return hks, err
}

func (r *RemoteService) Autostart(ctx context.Context) (bool, error) {
	var p autostartParams
	err := r.client.Call(ctx, MethodGetAutostart, nil, &p)
	return p.Enabled, err
}

// SetAutostart changes the login item through the daemon. A daemon on a
// platform without login items yields autostart.ErrUnsupported.
func (r *RemoteService) SetAutostart(ctx context.Context, enabled bool) error {
	err := r.client.Call(ctx, MethodSetAutostart, autostartParams{Enabled: enabled}, nil)
	var ipcErr *ipc.Error
	if errors.As(err, &ipcErr) && ipcErr.Code == ipc.CodeUnsupported {
		return autostart.ErrUnsupported
	}
	return err
}

func (r *RemoteService) Status(ctx context.Context) (Status, error) {
	var st Status
	err := r.client.Call(ctx, MethodStatus, nil, &st)
	return st, err
}

func (r *RemoteService) Stats(ctx context.Context, days int) (*stats.Summary, error) {
	var summary stats.Summary
	if err := r.client.Call(ctx, MethodStats, statsParams{Days: days}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
