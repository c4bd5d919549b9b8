package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	var b strings.Builder

	title := "🔊 sinkswitch - hotkeys"
	if m.remote {
		title += subtleStyle.Render("  (connected to daemon)")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.devices) == 0:
		b.WriteString("Loading devices...\n")
	case len(m.devices) == 0:
		b.WriteString(subtleStyle.Render("No render devices found."))
		b.WriteString("\n")
	default:
		for i := range m.devices {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if len(m.registered) > 0 {
		b.WriteString(subtleStyle.Render("Active: " + strings.Join(m.registered, ", ")))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeRecord:
		b.WriteString(promptStyle.Render("Press the new hotkey (esc to cancel)"))
		b.WriteString("\n")
	case modeType:
		b.WriteString(promptStyle.Render("Hotkey: " + m.input.View()))
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString(warningStyle.Render("Clear every binding? (y/N)"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.dirty {
		b.WriteString(warningStyle.Render("Unsaved changes"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(i int) string {
	d := m.devices[i]
	binding := m.bindings[d.DeviceID]

	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}
	check := "[ ]"
	if binding.Enabled {
		check = "[x]"
	}
	marker := "  "
	if d.DeviceID == m.current {
		marker = "🔊"
	}

	hk := subtleStyle.Render("no hotkey")
	if binding.Hotkey != "" {
		hk = hotkeyStyle.Render(binding.Hotkey)
	}

	row := fmt.Sprintf("%s%s %s %s  %s", cursor, check, marker, d.Name, hk)
	if i == m.cursor {
		return selectedStyle.Render(row)
	}
	return row
}
