package app

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/sinkswitch/internal/audio"
	"github.com/bezmoradi/sinkswitch/internal/autostart"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/config"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/terminal"
)

type daemonFixture struct {
	daemon    *Daemon
	registrar *fakeRegistrar
	audio     *fakeAudio
	autostart *fakeAutostart
	remote    *RemoteService
	cfg       *config.Config
	dir       string
}

func startDaemon(t *testing.T, ids ...string) *daemonFixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.IPCAddr = "127.0.0.1:0"

	f := &daemonFixture{
		registrar: newFakeRegistrar(),
		audio:     newFakeAudio(ids...),
		autostart: &fakeAutostart{},
		cfg:       cfg,
		dir:       dir,
	}
	f.daemon = NewDaemon(
		WithConfig(cfg),
		WithDirs(dir, filepath.Join(dir, "data"), filepath.Join(dir, "stats")),
		WithRegistrar(f.registrar),
		WithSwitcher(f.audio),
		WithAutostart(f.autostart),
		WithFeedback(audio.NewFeedback(false, false, 0)),
		Hidden(true),
	)
	require.NoError(t, f.daemon.Initialize())
	t.Cleanup(f.daemon.Cleanup)
	require.NoError(t, f.daemon.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	remote, err := DialDaemon(ctx, f.daemon.server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { remote.Close() })
	f.remote = remote

	return f
}

func TestDaemonConfigureOverIPC(t *testing.T) {
	f := startDaemon(t, "{speakers}", "{headset}")
	ctx := context.Background()

	devices, err := f.remote.FetchDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	current, err := f.remote.CurrentDevice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{speakers}", current)

	for _, id := range []string{"{speakers}", "{headset}"} {
		hk, ok, err := f.remote.RecordHotkey(ctx, id, hotkeys.KeyEvent{Key: "MediaTrackNext"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "MediaNextTrack", hk)

		b, err := f.remote.UpdateBinding(ctx, id, bindings.SetEnabled(true))
		require.NoError(t, err)
		assert.True(t, b.Active())
	}
	require.NoError(t, f.remote.SaveBindings(ctx))

	registered, err := f.remote.RegisteredHotkeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MediaNextTrack"}, registered)

	f.registrar.press(t, "MediaNextTrack")
	assert.Equal(t, "{headset}", f.audio.Current())

	select {
	case ev := <-f.remote.Events():
		require.Equal(t, EventDeviceSwitched, ev.Name)
		var notice SwitchNotice
		require.NoError(t, json.Unmarshal(ev.Data, &notice))
		assert.Equal(t, "{headset}", notice.To)
		assert.Equal(t, "Speakers({headset})", notice.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no switch event")
	}

	summary, err := f.remote.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSwitches)
	assert.Equal(t, map[string]int{"{headset}": 1}, summary.PerDevice)

	status, err := f.remote.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MediaNextTrack"}, status.Hotkeys)
	assert.Equal(t, 1, status.Clients)
}

func TestDaemonClearOverIPC(t *testing.T) {
	f := startDaemon(t, "{a}")
	ctx := context.Background()

	_, err := f.remote.UpdateBinding(ctx, "{a}", bindings.Update{Hotkey: ptr("Ctrl+Alt+A"), Enabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, f.remote.SaveBindings(ctx))

	require.NoError(t, f.remote.ClearBindings(ctx))

	registered, err := f.remote.RegisteredHotkeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, registered)

	b, err := f.remote.GetBinding(ctx, "{a}")
	require.NoError(t, err)
	assert.True(t, b.IsDefault())
}

func TestDaemonAutostartOverIPC(t *testing.T) {
	f := startDaemon(t)
	ctx := context.Background()

	enabled, err := f.remote.Autostart(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, f.remote.SetAutostart(ctx, true))
	enabled, err = f.autostart.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	f.autostart.fail(autostart.ErrUnsupported)
	assert.ErrorIs(t, f.remote.SetAutostart(ctx, false), autostart.ErrUnsupported)
}

func TestDaemonRefreshBroadcasts(t *testing.T) {
	f := startDaemon(t, "{a}", "{b}")
	ctx := context.Background()

	devices, err := f.remote.RefreshDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	select {
	case ev := <-f.remote.Events():
		assert.Equal(t, EventDevicesRefresh, ev.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no refresh event")
	}
}

func TestDaemonRejectsBadParams(t *testing.T) {
	f := startDaemon(t, "{a}")

	_, err := f.remote.GetBinding(context.Background(), "")
	var ipcErr *ipc.Error
	require.ErrorAs(t, err, &ipcErr)
	assert.Equal(t, ipc.CodeInvalidParams, ipcErr.Code)
}

func TestSecondDaemonIsRefused(t *testing.T) {
	first := startDaemon(t, "{a}")

	cfg := config.DefaultConfig()
	cfg.IPCAddr = first.daemon.server.Addr()
	dir := t.TempDir()
	second := NewDaemon(
		WithConfig(cfg),
		WithDirs(dir, filepath.Join(dir, "data"), filepath.Join(dir, "stats")),
		WithRegistrar(newFakeRegistrar()),
		WithSwitcher(newFakeAudio("{a}")),
		Hidden(true),
	)
	defer second.Cleanup()

	assert.ErrorIs(t, second.Initialize(), ErrAlreadyRunning)
}

func TestDaemonCleanupIsIdempotent(t *testing.T) {
	f := startDaemon(t, "{a}")
	f.daemon.Cleanup()
	f.daemon.Cleanup()
}

func TestDaemonWritesDefaultConfig(t *testing.T) {
	f := startDaemon(t)

	loaded, err := config.LoadFile(config.FilePath(f.dir))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}

func TestDaemonShowsTodaysSwitches(t *testing.T) {
	f := startDaemon(t, "{a}", "{b}")
	ctx := context.Background()

	var buf bytes.Buffer
	f.daemon.status = terminal.NewStatusLine(terminal.NewControlWriter(&buf, false))

	_, err := f.remote.UpdateBinding(ctx, "{b}", bindings.Update{Hotkey: ptr("Ctrl+F2"), Enabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, f.remote.SaveBindings(ctx))

	f.registrar.press(t, "Ctrl+F2")
	assert.Contains(t, f.daemon.status.Lines(), "📊 Today: 1 switch")
}

func TestMirrorLogs(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, mirrorLogs(cfg, false), "the status block owns the terminal")

	cfg.Debug = true
	assert.True(t, mirrorLogs(cfg, false))
	assert.False(t, mirrorLogs(cfg, true), "hidden runs have no console")
}
