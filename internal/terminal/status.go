package terminal

import (
	"fmt"
	"strings"
)

// StatusLine is the block the foreground daemon keeps on screen.
type StatusLine struct {
	control    *Control
	registered []string
	today      int
	last       string
}

func NewStatusLine(control *Control) *StatusLine {
	return &StatusLine{control: control}
}

// SetRegistered replaces the list of active hotkeys and redraws.
func (s *StatusLine) SetRegistered(hotkeys []string) {
	s.registered = append([]string(nil), hotkeys...)
	s.control.UpdateInPlace(s.Lines())
}

// SetLast records the outcome of the latest press and redraws.
func (s *StatusLine) SetLast(line string) {
	s.last = line
	s.control.UpdateInPlace(s.Lines())
}

// SetToday records how many switches happened today and redraws.
func (s *StatusLine) SetToday(count int) {
	s.today = count
	s.control.UpdateInPlace(s.Lines())
}

func (s *StatusLine) Lines() []string {
	hotkeys := "none"
	if len(s.registered) > 0 {
		hotkeys = strings.Join(s.registered, ", ")
	}
	lines := []string{fmt.Sprintf("⌨️  Hotkeys: %s", hotkeys)}
	switch {
	case s.today == 1:
		lines = append(lines, "📊 Today: 1 switch")
	case s.today > 1:
		lines = append(lines, fmt.Sprintf("📊 Today: %d switches", s.today))
	}
	if s.last != "" {
		lines = append(lines, s.last)
	}
	return lines
}
