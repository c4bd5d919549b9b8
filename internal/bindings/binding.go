package bindings

// Binding associates one device with a hotkey.
type Binding struct {
	Hotkey    string `json:"hotkey"`
	Enabled   bool   `json:"enabled"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds of the last hotkey assignment
}

// IsDefault reports whether b carries no information worth persisting.
func (b Binding) IsDefault() bool {
	return b.Hotkey == "" && !b.Enabled
}

// Active reports whether b takes part in hotkey registration.
func (b Binding) Active() bool {
	return b.Enabled && b.Hotkey != ""
}

// Entry pairs a binding with its device identifier.
type Entry struct {
	DeviceID string `json:"deviceId"`
	Binding
}

// Update is a partial binding; nil fields are left untouched.
type Update struct {
	Hotkey  *string `json:"hotkey,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// SetHotkey returns an Update that assigns hotkey.
func SetHotkey(hotkey string) Update {
	return Update{Hotkey: &hotkey}
}

// SetEnabled returns an Update that toggles the enabled flag.
func SetEnabled(enabled bool) Update {
	return Update{Enabled: &enabled}
}
