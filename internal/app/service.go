package app

import (
	"context"
	"errors"
	"sync"

	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/logger"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
)

// Backend is the set of operations a configuration UI drives. Service
// implements it in process; RemoteService forwards it to a running daemon.
type Backend interface {
	FetchDevices(ctx context.Context) ([]svcl.Device, error)
	CurrentDevice(ctx context.Context) (string, error)
	GetBinding(ctx context.Context, deviceID string) (bindings.Binding, error)
	UpdateBinding(ctx context.Context, deviceID string, u bindings.Update) (bindings.Binding, error)
	EnabledBindings(ctx context.Context) ([]bindings.Entry, error)
	SaveBindings(ctx context.Context) error
	LoadBindings(ctx context.Context) error
	ClearBindings(ctx context.Context) error
	RecordHotkey(ctx context.Context, deviceID string, ev hotkeys.KeyEvent) (string, bool, error)
	RegisteredHotkeys(ctx context.Context) ([]string, error)
}

// DeviceSource lists render devices and reports the current default.
type DeviceSource interface {
	ListDevices(ctx context.Context) ([]svcl.Device, error)
	CurrentDevice(ctx context.Context) (string, error)
}

// HotkeyRouter is the part of hotkeys.Router the service drives.
type HotkeyRouter interface {
	RegisterHotkeys(m map[string]bindings.Binding) error
	UnregisterHotkeys()
	Registered() []string
}

// Service exposes the binding store and the router to a UI. Calls are
// serialized; the UI is a single logical actor.
type Service struct {
	mu      sync.Mutex
	devices DeviceSource
	store   *bindings.Store
	router  HotkeyRouter // nil when the process does not own hotkeys

	cached       []svcl.Device
	onRegistered func(hotkeys []string)
}

var _ Backend = (*Service)(nil)

func NewService(devices DeviceSource, store *bindings.Store, router HotkeyRouter) *Service {
	return &Service{
		devices: devices,
		store:   store,
		router:  router,
	}
}

// OnRegistered sets a callback run with the registered hotkeys whenever the
// registration set changes.
func (s *Service) OnRegistered(fn func(hotkeys []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRegistered = fn
}

// FetchDevices lists the render devices and records them as known, which
// gives new devices a default binding.
func (s *Service) FetchDevices(ctx context.Context) ([]svcl.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.devices.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(devices))
	for i, d := range devices {
		ids[i] = d.DeviceID
	}
	s.store.SetKnownDevices(ids)
	s.cached = devices
	logger.Debug("[DAEMON] Fetched %d render device(s)", len(devices))
	return devices, nil
}

func (s *Service) CurrentDevice(ctx context.Context) (string, error) {
	return s.devices.CurrentDevice(ctx)
}

// Devices returns the result of the last successful FetchDevices.
func (s *Service) Devices() []svcl.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]svcl.Device(nil), s.cached...)
}

// DeviceNames maps device ids to display names from the last fetch.
func (s *Service) DeviceNames() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]string, len(s.cached))
	for _, d := range s.cached {
		names[d.DeviceID] = d.Name
	}
	return names
}

func (s *Service) GetBinding(_ context.Context, deviceID string) (bindings.Binding, error) {
	return s.store.Get(deviceID), nil
}

func (s *Service) UpdateBinding(_ context.Context, deviceID string, u bindings.Update) (bindings.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Update(deviceID, u), nil
}

func (s *Service) EnabledBindings(context.Context) ([]bindings.Entry, error) {
	return s.store.EnabledBindings(), nil
}

// SaveBindings persists the bindings and, when this process owns hotkeys,
// re-registers them. A missing hotkey backend is only logged.
func (s *Service) SaveBindings(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(); err != nil {
		return err
	}
	return s.registerLocked()
}

func (s *Service) LoadBindings(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Load()
	return nil
}

// ClearBindings releases every hotkey and resets all bindings to default.
func (s *Service) ClearBindings(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var releaser bindings.Releaser
	if s.router != nil {
		releaser = s.router
	}
	err := s.store.Clear(releaser)
	s.notifyRegistered()
	return err
}

// RecordHotkey turns a key press into a hotkey string and assigns it to the
// device. A press of only modifiers assigns nothing and reports false.
func (s *Service) RecordHotkey(_ context.Context, deviceID string, ev hotkeys.KeyEvent) (string, bool, error) {
	hk, ok := hotkeys.Record(ev)
	if !ok {
		return "", false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Update(deviceID, bindings.SetHotkey(hk))
	return hk, true, nil
}

func (s *Service) RegisteredHotkeys(context.Context) ([]string, error) {
	if s.router == nil {
		return nil, nil
	}
	return s.router.Registered(), nil
}

// RegisterHotkeys registers the current bindings with the OS.
func (s *Service) RegisterHotkeys(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerLocked()
}

func (s *Service) UnregisterHotkeys(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.router != nil {
		s.router.UnregisterHotkeys()
		s.notifyRegistered()
	}
	return nil
}

func (s *Service) registerLocked() error {
	if s.router == nil {
		return nil
	}
	err := s.router.RegisterHotkeys(s.store.Snapshot())
	s.notifyRegistered()
	if errors.Is(err, hotkeys.ErrBackendNotAvailable) {
		logger.Warn("[DAEMON] Bindings saved but not registered: %v", err)
		return nil
	}
	return err
}

func (s *Service) notifyRegistered() {
	if s.onRegistered != nil && s.router != nil {
		s.onRegistered(s.router.Registered())
	}
}
