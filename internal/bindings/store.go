package bindings

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bezmoradi/sinkswitch/internal/logger"
	"github.com/bezmoradi/sinkswitch/internal/storage"
)

// SlotName is the storage slot holding the serialized binding map.
const SlotName = "deviceBindings"

// ErrStorage wraps failures to persist the binding map.
var ErrStorage = errors.New("binding storage failure")

// Releaser drops every active hotkey registration.
type Releaser interface {
	UnregisterHotkeys()
}

// Store owns the device id to binding map. Reads between an Update and a
// Save see the in-memory state; nothing is persisted implicitly.
type Store struct {
	mu       sync.RWMutex
	slot     storage.Slot
	bindings map[string]Binding
	order    []string
	known    []string
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty store persisting to slot.
func NewStore(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		bindings: map[string]Binding{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) defaultBinding() Binding {
	return Binding{Timestamp: s.now().UnixMilli()}
}

// insert adds a binding, keeping first-insertion order. Caller holds mu.
func (s *Store) insert(deviceID string, b Binding) {
	if _, ok := s.bindings[deviceID]; !ok {
		s.order = append(s.order, deviceID)
	}
	s.bindings[deviceID] = b
}

// assignStamp returns a timestamp later than every other binding sharing
// hotkey, so assignments within one millisecond keep their order. Caller
// holds mu.
func (s *Store) assignStamp(deviceID, hotkey string) int64 {
	stamp := s.now().UnixMilli()
	for id, other := range s.bindings {
		if id != deviceID && other.Hotkey == hotkey && other.Timestamp >= stamp {
			stamp = other.Timestamp + 1
		}
	}
	return stamp
}

// Get returns the binding for deviceID, or a fresh default that is not stored.
func (s *Store) Get(deviceID string) Binding {
	s.mu.RLock()
	b, ok := s.bindings[deviceID]
	s.mu.RUnlock()
	if ok {
		return b
	}
	return s.defaultBinding()
}

// Update merges u into the binding for deviceID. Assigning a non-empty
// hotkey makes the binding the most recent one for rotation order.
func (s *Store) Update(deviceID string, u Update) Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bindings[deviceID]
	if !ok {
		b = s.defaultBinding()
	}
	if u.Hotkey != nil {
		b.Hotkey = *u.Hotkey
		if b.Hotkey != "" {
			b.Timestamp = s.assignStamp(deviceID, b.Hotkey)
		}
	}
	if u.Enabled != nil {
		b.Enabled = *u.Enabled
	}
	s.insert(deviceID, b)
	return b
}

// EnabledBindings lists enabled bindings in insertion order.
func (s *Store) EnabledBindings() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, id := range s.order {
		if b := s.bindings[id]; b.Enabled {
			out = append(out, Entry{DeviceID: id, Binding: b})
		}
	}
	return out
}

// Entries lists every binding in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry{DeviceID: id, Binding: s.bindings[id]})
	}
	return out
}

// Snapshot returns a copy of the full binding map.
func (s *Store) Snapshot() map[string]Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Binding, len(s.bindings))
	for id, b := range s.bindings {
		out[id] = b
	}
	return out
}

// SetKnownDevices records the latest device snapshot and gives every newly
// seen device a default binding.
func (s *Store) SetKnownDevices(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.known = append(s.known[:0:0], ids...)
	for _, id := range ids {
		if _, ok := s.bindings[id]; !ok {
			s.insert(id, s.defaultBinding())
		}
	}
}

// Save persists the binding map, skipping entries with no hotkey that are
// also disabled.
func (s *Store) Save() error {
	s.mu.Lock()
	now := s.now().UnixMilli()
	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		b := s.bindings[id]
		if b.IsDefault() {
			continue
		}
		if b.Timestamp == 0 {
			b.Timestamp = now
			s.bindings[id] = b
		}
		entries = append(entries, Entry{DeviceID: id, Binding: b})
	}
	s.mu.Unlock()

	data, err := encodeOrdered(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrStorage, err)
	}
	if err := s.slot.Set(SlotName, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	logger.Debug("[STORE] Saved %d bindings", len(entries))
	return nil
}

// Load replaces the in-memory map with the persisted one. Missing or
// unreadable data leaves an empty map. Known devices without an entry get
// a default binding.
func (s *Store) Load() {
	order, loaded := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bindings = map[string]Binding{}
	s.order = nil
	now := s.now().UnixMilli()
	for _, id := range order {
		b := loaded[id]
		if b.Timestamp == 0 {
			b.Timestamp = now
		}
		s.insert(id, b)
	}
	for _, id := range s.known {
		if _, ok := s.bindings[id]; !ok {
			s.insert(id, Binding{Timestamp: now})
		}
	}
}

func (s *Store) read() ([]string, map[string]Binding) {
	data, err := s.slot.Get(SlotName)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("[STORE] No saved bindings")
		return nil, nil
	}
	if err != nil {
		logger.Warn("[STORE] Failed to read bindings, starting empty: %v", err)
		return nil, nil
	}

	order, loaded, err := decodeOrdered(data)
	if err != nil {
		logger.Warn("[STORE] Corrupt bindings, starting empty: %v", err)
		return nil, nil
	}
	return order, loaded
}

// Clear releases every hotkey, erases the persisted map and saves an
// all-default configuration for the known devices.
func (s *Store) Clear(r Releaser) error {
	if r != nil {
		r.UnregisterHotkeys()
	}

	if err := s.slot.Remove(SlotName); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.Load()
	return s.Save()
}
