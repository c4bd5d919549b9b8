// Package tui is the terminal configuration UI. It edits bindings through an
// app.Backend, either in process or against a running daemon.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bezmoradi/sinkswitch/internal/app"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
)

const callTimeout = 15 * time.Second

type mode int

const (
	modeBrowse mode = iota
	modeRecord
	modeType
	modeConfirmClear
)

// Model is the bubbletea model of the configuration screen.
type Model struct {
	backend app.Backend
	events  <-chan ipc.Event
	remote  bool

	devices    []svcl.Device
	bindings   map[string]bindings.Binding
	current    string
	registered []string

	cursor      int
	mode        mode
	dirty       bool
	loading     bool
	confirmQuit bool

	input textinput.Model
	keys  keyMap
	help  help.Model

	status string
	err    error
}

type Option func(*Model)

// WithEvents subscribes the model to daemon pushes.
func WithEvents(events <-chan ipc.Event) Option {
	return func(m *Model) {
		m.events = events
		m.remote = true
	}
}

func New(backend app.Backend, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Ctrl+Alt+F1"
	ti.CharLimit = 64

	m := Model{
		backend:  backend,
		bindings: map[string]bindings.Binding{},
		input:    ti,
		keys:     defaultKeyMap(),
		help:     help.New(),
		loading:  true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDevices(), m.waitForEvent())
}

// Run starts the UI and blocks until the user quits.
func Run(backend app.Backend, opts ...Option) error {
	_, err := tea.NewProgram(New(backend, opts...), tea.WithAltScreen()).Run()
	return err
}

func (m Model) selected() (svcl.Device, bool) {
	if m.cursor < 0 || m.cursor >= len(m.devices) {
		return svcl.Device{}, false
	}
	return m.devices[m.cursor], true
}

func (m Model) loadDevices() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		devices, err := backend.FetchDevices(ctx)
		if err != nil {
			return devicesLoadedMsg{err: err}
		}

		msg := devicesLoadedMsg{
			devices:  devices,
			bindings: make(map[string]bindings.Binding, len(devices)),
		}
		for _, d := range devices {
			b, err := backend.GetBinding(ctx, d.DeviceID)
			if err != nil {
				return devicesLoadedMsg{err: err}
			}
			msg.bindings[d.DeviceID] = b
		}

		// The default device is informational; a failed lookup is not fatal.
		msg.current, _ = backend.CurrentDevice(ctx)
		msg.registered, _ = backend.RegisteredHotkeys(ctx)
		return msg
	}
}

func (m Model) updateBinding(deviceID string, u bindings.Update) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		b, err := backend.UpdateBinding(ctx, deviceID, u)
		return bindingUpdatedMsg{deviceID: deviceID, binding: b, err: err}
	}
}

func (m Model) recordHotkey(deviceID string, ev hotkeys.KeyEvent) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		hk, ok, err := backend.RecordHotkey(ctx, deviceID, ev)
		return hotkeyRecordedMsg{deviceID: deviceID, hotkey: hk, ok: ok, err: err}
	}
}

func (m Model) save() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		if err := backend.SaveBindings(ctx); err != nil {
			return savedMsg{err: err}
		}
		registered, err := backend.RegisteredHotkeys(ctx)
		return savedMsg{registered: registered, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	backend := m.backend
	load := m.loadDevices()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		if err := backend.LoadBindings(ctx); err != nil {
			return devicesLoadedMsg{err: err}
		}
		return load()
	}
}

func (m Model) clear() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return clearedMsg{err: backend.ClearBindings(ctx)}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return daemonEventMsg{event: ev}
	}
}
