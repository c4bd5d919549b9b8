package tui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bezmoradi/sinkswitch/internal/app"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case devicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.devices = msg.devices
		m.bindings = msg.bindings
		m.current = msg.current
		m.registered = msg.registered
		if m.cursor >= len(m.devices) {
			m.cursor = max(len(m.devices)-1, 0)
		}
		return m, nil

	case bindingUpdatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.bindings[msg.deviceID] = msg.binding
		m.dirty = true
		return m, nil

	case hotkeyRecordedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeBrowse
			return m, nil
		}
		if !msg.ok {
			// Only modifiers so far; keep listening.
			return m, nil
		}
		m.mode = modeBrowse
		m.err = nil
		b := m.bindings[msg.deviceID]
		b.Hotkey = msg.hotkey
		m.bindings[msg.deviceID] = b
		m.dirty = true
		m.status = fmt.Sprintf("Recorded %s", msg.hotkey)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.dirty = false
		m.confirmQuit = false
		m.registered = msg.registered
		m.status = "Saved"
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dirty = false
		m.status = "All bindings cleared"
		return m, m.loadDevices()

	case daemonEventMsg:
		return m.handleEvent(msg), m.waitForEvent()

	case eventsClosedMsg:
		m.err = fmt.Errorf("lost connection to the daemon")
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRecord:
			return m.updateRecord(msg)
		case modeType:
			return m.updateType(msg)
		case modeConfirmClear:
			return m.updateConfirmClear(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) handleEvent(msg daemonEventMsg) Model {
	switch msg.event.Name {
	case app.EventDeviceSwitched:
		var notice app.SwitchNotice
		if err := json.Unmarshal(msg.event.Data, &notice); err != nil {
			return m
		}
		if notice.Error != "" {
			m.status = fmt.Sprintf("%s failed: %s", notice.Hotkey, notice.Error)
			return m
		}
		m.current = notice.To
		m.status = fmt.Sprintf("%s → %s", notice.Hotkey, notice.Name)
	case app.EventDevicesRefresh:
		m.status = "Device list refreshed"
	}
	return m
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.dirty && !m.confirmQuit && msg.String() != "ctrl+c" {
			m.confirmQuit = true
			m.status = "Unsaved changes. Press q again to quit without saving."
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Record):
		if _, ok := m.selected(); ok {
			m.mode = modeRecord
			m.status = ""
			m.err = nil
		}

	case key.Matches(msg, m.keys.Type):
		if d, ok := m.selected(); ok {
			m.mode = modeType
			m.err = nil
			m.input.SetValue(m.bindings[d.DeviceID].Hotkey)
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Toggle):
		if d, ok := m.selected(); ok {
			enabled := !m.bindings[d.DeviceID].Enabled
			return m, m.updateBinding(d.DeviceID, bindings.SetEnabled(enabled))
		}

	case key.Matches(msg, m.keys.Remove):
		if d, ok := m.selected(); ok {
			return m, m.updateBinding(d.DeviceID, bindings.SetHotkey(""))
		}

	case key.Matches(msg, m.keys.Save):
		m.status = "Saving..."
		return m, m.save()

	case key.Matches(msg, m.keys.Reload):
		m.dirty = false
		m.loading = true
		m.status = "Reloaded saved bindings"
		return m, m.reload()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.status = ""
		return m, m.loadDevices()

	case key.Matches(msg, m.keys.Clear):
		m.mode = modeConfirmClear

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) updateRecord(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.status = "Recording cancelled"
		return m, nil
	}

	d, ok := m.selected()
	if !ok {
		m.mode = modeBrowse
		return m, nil
	}

	ev, ok := keyEvent(msg)
	if !ok {
		m.status = fmt.Sprintf("%q cannot be used as a hotkey", msg.String())
		return m, nil
	}
	return m, m.recordHotkey(d.DeviceID, ev)
}

func (m Model) updateType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		d, ok := m.selected()
		if !ok {
			m.mode = modeBrowse
			return m, nil
		}

		hk, err := hotkeys.Normalize(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		m.status = fmt.Sprintf("Set %s", hk)
		return m, m.updateBinding(d.DeviceID, bindings.SetHotkey(hk))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	switch msg.String() {
	case "y", "Y":
		m.status = "Clearing..."
		return m, m.clear()
	case "ctrl+c":
		return m, tea.Quit
	}
	m.status = "Clear cancelled"
	return m, nil
}
