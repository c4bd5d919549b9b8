//go:build !windows

package autostart

// Enabled always reports false outside Windows.
func Enabled() (bool, error) {
	return false, nil
}

func Set(enabled bool) error {
	return ErrUnsupported
}
