package hotkeys

import "errors"

// ErrBackendNotAvailable is returned when global hotkeys cannot be
// registered on the current system.
var ErrBackendNotAvailable = errors.New("global hotkeys not available on this system")

// Registrar claims system-wide key combinations.
type Registrar interface {
	// Register claims accel and calls onPress for every key press until the
	// returned Registration is released.
	Register(accel Accelerator, onPress func()) (Registration, error)
}

// Registration is a claimed hotkey.
type Registration interface {
	Unregister() error
}
