package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
)

type fakeRegistration struct {
	registrar *fakeRegistrar
	name      string
}

func (f *fakeRegistration) Unregister() error {
	f.registrar.mu.Lock()
	defer f.registrar.mu.Unlock()
	delete(f.registrar.active, f.name)
	return nil
}

type fakeRegistrar struct {
	mu     sync.Mutex
	active map[string]func()
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{active: map[string]func(){}}
}

func (f *fakeRegistrar) Register(accel hotkeys.Accelerator, onPress func()) (hotkeys.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[accel.String()] = onPress
	return &fakeRegistration{registrar: f, name: accel.String()}, nil
}

func (f *fakeRegistrar) press(t *testing.T, accel string) {
	t.Helper()
	f.mu.Lock()
	onPress, ok := f.active[accel]
	f.mu.Unlock()
	require.True(t, ok, "hotkey %s not registered", accel)
	onPress()
}

// fakeAudio stands in for svcl: a fixed device list and a mutable default.
type fakeAudio struct {
	mu      sync.Mutex
	devices []svcl.Device
	current string
	listErr error
	sets    []string
}

func newFakeAudio(ids ...string) *fakeAudio {
	f := &fakeAudio{}
	for _, id := range ids {
		f.devices = append(f.devices, svcl.Device{Name: "Speakers(" + id + ")", DeviceID: id})
	}
	if len(ids) > 0 {
		f.current = ids[0]
	}
	return f
}

func (f *fakeAudio) ListDevices(ctx context.Context) ([]svcl.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]svcl.Device, len(f.devices))
	for i, d := range f.devices {
		d.IsDefault = d.DeviceID == f.current
		out[i] = d
	}
	return out, nil
}

func (f *fakeAudio) CurrentDevice(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" {
		return "", svcl.ErrNoDefaultDevice
	}
	return f.current, nil
}

func (f *fakeAudio) SetDefault(ctx context.Context, deviceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, deviceID)
	f.current = deviceID
	return nil
}

func (f *fakeAudio) Current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

type fakeAutostart struct {
	mu      sync.Mutex
	enabled bool
	err     error
}

func (f *fakeAutostart) Enabled() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled, f.err
}

func (f *fakeAutostart) Set(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.enabled = enabled
	return nil
}

func (f *fakeAutostart) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}
