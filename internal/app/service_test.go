package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/storage"
)

type serviceFixture struct {
	service   *Service
	store     *bindings.Store
	router    *hotkeys.Router
	registrar *fakeRegistrar
	audio     *fakeAudio
	slot      storage.Slot
}

func newServiceFixture(t *testing.T, ids ...string) *serviceFixture {
	t.Helper()

	slot, err := storage.Open(storage.BackendJSON, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })

	f := &serviceFixture{
		store:     bindings.NewStore(slot),
		registrar: newFakeRegistrar(),
		audio:     newFakeAudio(ids...),
		slot:      slot,
	}
	f.router = hotkeys.NewRouter(f.registrar, f.audio)
	f.service = NewService(f.audio, f.store, f.router)
	return f
}

func TestFetchDevicesSeedsDefaults(t *testing.T) {
	f := newServiceFixture(t, "{a}", "{b}")
	ctx := context.Background()

	devices, err := f.service.FetchDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.True(t, devices[0].IsDefault)

	assert.Len(t, f.service.Devices(), 2)
	assert.Len(t, f.store.Entries(), 2)
	assert.Equal(t, map[string]string{"{a}": "Speakers({a})", "{b}": "Speakers({b})"}, f.service.DeviceNames())
}

func TestSaveBindingsRegistersHotkeys(t *testing.T) {
	f := newServiceFixture(t, "{a}", "{b}")
	ctx := context.Background()

	var notified [][]string
	f.service.OnRegistered(func(hks []string) { notified = append(notified, hks) })

	_, err := f.service.FetchDevices(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateBinding(ctx, "{a}", bindings.Update{Hotkey: ptr("Ctrl+F1"), Enabled: ptr(true)})
	require.NoError(t, err)
	_, err = f.service.UpdateBinding(ctx, "{b}", bindings.Update{Hotkey: ptr("Ctrl+F1"), Enabled: ptr(true)})
	require.NoError(t, err)

	require.NoError(t, f.service.SaveBindings(ctx))

	registered, err := f.service.RegisteredHotkeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ctrl+F1"}, registered)
	assert.Equal(t, [][]string{{"Ctrl+F1"}}, notified)

	f.registrar.press(t, "Ctrl+F1")
	assert.Equal(t, "{b}", f.audio.Current())
	f.registrar.press(t, "Ctrl+F1")
	assert.Equal(t, "{a}", f.audio.Current())

	enabled, err := f.service.EnabledBindings(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)
}

func TestRecordHotkey(t *testing.T) {
	f := newServiceFixture(t, "{a}")
	ctx := context.Background()

	hk, ok, err := f.service.RecordHotkey(ctx, "{a}", hotkeys.KeyEvent{Key: "Control", Ctrl: true})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, hk)

	b, err := f.service.GetBinding(ctx, "{a}")
	require.NoError(t, err)
	assert.Empty(t, b.Hotkey)

	hk, ok, err = f.service.RecordHotkey(ctx, "{a}", hotkeys.KeyEvent{Key: "k", Ctrl: true, Shift: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ctrl+Shift+K", hk)

	b, err = f.service.GetBinding(ctx, "{a}")
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+Shift+K", b.Hotkey)
	assert.False(t, b.Enabled)
}

func TestClearBindingsReleasesHotkeys(t *testing.T) {
	f := newServiceFixture(t, "{a}")
	ctx := context.Background()

	_, err := f.service.FetchDevices(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateBinding(ctx, "{a}", bindings.Update{Hotkey: ptr("F9"), Enabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, f.service.SaveBindings(ctx))
	require.Len(t, f.router.Registered(), 1)

	require.NoError(t, f.service.ClearBindings(ctx))

	assert.Empty(t, f.router.Registered())
	b, err := f.service.GetBinding(ctx, "{a}")
	require.NoError(t, err)
	assert.True(t, b.IsDefault())

	// A reload after clearing still yields only defaults.
	require.NoError(t, f.service.LoadBindings(ctx))
	enabled, err := f.service.EnabledBindings(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)
}

func TestSaveWithoutHotkeyBackend(t *testing.T) {
	f := newServiceFixture(t, "{a}")
	ctx := context.Background()
	svc := NewService(f.audio, f.store, hotkeys.NewRouter(nil, f.audio))

	_, err := svc.UpdateBinding(ctx, "{a}", bindings.Update{Hotkey: ptr("F9"), Enabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, svc.SaveBindings(ctx))

	data, err := f.slot.Get(bindings.SlotName)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"F9"`)
}

func TestServiceWithoutRouter(t *testing.T) {
	f := newServiceFixture(t, "{a}")
	ctx := context.Background()
	svc := NewService(f.audio, f.store, nil)

	require.NoError(t, svc.SaveBindings(ctx))
	require.NoError(t, svc.ClearBindings(ctx))
	require.NoError(t, svc.UnregisterHotkeys(ctx))
	registered, err := svc.RegisteredHotkeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, registered)
}

func ptr[T any](v T) *T {
	return &v
}
