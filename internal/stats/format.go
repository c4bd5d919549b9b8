package stats

import (
	"fmt"
	"strings"
	"time"
)

// FormatSummary renders a summary for the terminal. names maps device ids to
// display names; unknown ids are shown as is.
func FormatSummary(summary *Summary, names map[string]string) string {
	if summary == nil || summary.TotalSwitches == 0 {
		return "📊 No switches recorded yet. Press a bound hotkey to get started!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Last %d days:\n", summary.Days)
	fmt.Fprintf(&b, "   Active days: %d/%d\n", summary.ActiveDays, summary.Days)
	fmt.Fprintf(&b, "   Switches: %d", summary.TotalSwitches)
	if summary.Failures > 0 {
		fmt.Fprintf(&b, " (%d failed)", summary.Failures)
	}
	b.WriteString("\n")

	top := summary.TopDevices()
	if len(top) > 0 {
		b.WriteString("🎧 Devices:\n")
		for _, dc := range top {
			fmt.Fprintf(&b, "   %4d  %s\n", dc.Count, displayName(dc.DeviceID, names))
		}
	}

	if last := summary.Last; last != nil {
		fmt.Fprintf(&b, "🕒 Last switch: %s", FormatAgo(time.Since(last.Timestamp)))
		if last.Failed() {
			fmt.Fprintf(&b, " (failed: %s)", last.Error)
		} else {
			fmt.Fprintf(&b, " → %s", displayName(last.To, names))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatSwitchLine is the one-line status shown after a press.
func FormatSwitchLine(rec SwitchRecord, names map[string]string) string {
	if rec.Failed() {
		return fmt.Sprintf("❌ %s: %s", rec.Hotkey, rec.Error)
	}
	return fmt.Sprintf("🔊 %s → %s", rec.Hotkey, displayName(rec.To, names))
}

// FormatAgo renders a coarse relative time.
func FormatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func displayName(id string, names map[string]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
