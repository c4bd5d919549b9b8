//go:build !windows

package hotkeys

// OSRegistrar is a stand-in on platforms without a supported backend. The
// daemon still runs so bindings can be edited; every registration fails
// with ErrBackendNotAvailable.
type OSRegistrar struct{}

// NewOSRegistrar returns the registrar for this platform.
func NewOSRegistrar() *OSRegistrar {
	return &OSRegistrar{}
}

func (OSRegistrar) Register(accel Accelerator, onPress func()) (Registration, error) {
	return nil, ErrBackendNotAvailable
}
