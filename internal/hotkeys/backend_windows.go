//go:build windows

package hotkeys

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

var nativeModifiers = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModAlt:   hotkey.ModAlt,
	ModShift: hotkey.ModShift,
	ModWin:   hotkey.ModWin,
}

// OSRegistrar registers hotkeys with RegisterHotKey through golang.design/x/hotkey.
type OSRegistrar struct{}

// NewOSRegistrar returns the registrar for this platform.
func NewOSRegistrar() *OSRegistrar {
	return &OSRegistrar{}
}

func (OSRegistrar) Register(accel Accelerator, onPress func()) (Registration, error) {
	vk, ok := VirtualKey(accel.Key)
	if !ok {
		return nil, fmt.Errorf("no virtual-key code for %q", accel.Key)
	}

	mods := make([]hotkey.Modifier, 0, len(accel.Modifiers))
	for _, m := range accel.Modifiers {
		mods = append(mods, nativeModifiers[m])
	}

	hk := hotkey.New(mods, hotkey.Key(vk))
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register %s: %w", accel, err)
	}

	reg := &osRegistration{hk: hk, done: make(chan struct{})}
	go reg.listen(onPress)
	return reg, nil
}

type osRegistration struct {
	hk   *hotkey.Hotkey
	done chan struct{}
	once sync.Once
}

func (r *osRegistration) listen(onPress func()) {
	keydown := r.hk.Keydown()
	for {
		select {
		case <-r.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			// The press is handled off the listener so the OS message loop
			// keeps draining while svcl runs.
			go onPress()
		}
	}
}

func (r *osRegistration) Unregister() error {
	var err error
	r.once.Do(func() {
		close(r.done)
		err = r.hk.Unregister()
	})
	return err
}
