package hotkeys

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/logger"
)

// DefaultTriggerTimeout bounds the svcl calls made for one key press.
const DefaultTriggerTimeout = 10 * time.Second

// Switcher reads and changes the default render device.
type Switcher interface {
	CurrentDevice(ctx context.Context) (string, error)
	SetDefault(ctx context.Context, deviceID string) error
}

// Member is one device in a hotkey group.
type Member struct {
	DeviceID  string `json:"deviceId"`
	Timestamp int64  `json:"timestamp"`
}

// SwitchEvent describes the outcome of one hotkey press.
type SwitchEvent struct {
	Hotkey string
	From   string
	To     string
	Err    error
	At     time.Time
}

// Router owns the set of registered hotkeys and rotates the default device
// through each hotkey's group on every press.
type Router struct {
	registrar Registrar
	switcher  Switcher
	timeout   time.Duration
	onSwitch  func(SwitchEvent)

	mu            sync.Mutex
	registrations map[string]Registration
	groups        map[string][]Member

	// triggerMu serializes presses so one press's read and write of the
	// default device never interleave with another's.
	triggerMu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithSwitchHandler sets a callback run after every press.
func WithSwitchHandler(fn func(SwitchEvent)) RouterOption {
	return func(r *Router) {
		r.onSwitch = fn
	}
}

// WithTriggerTimeout overrides DefaultTriggerTimeout.
func WithTriggerTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.timeout = d
	}
}

// NewRouter creates a router with nothing registered.
func NewRouter(registrar Registrar, switcher Switcher, opts ...RouterOption) *Router {
	r := &Router{
		registrar:     registrar,
		switcher:      switcher,
		timeout:       DefaultTriggerTimeout,
		registrations: map[string]Registration{},
		groups:        map[string][]Member{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Groups partitions active bindings by hotkey. Each group is ordered by
// ascending timestamp, device id breaking ties.
func Groups(m map[string]bindings.Binding) map[string][]Member {
	groups := map[string][]Member{}
	for deviceID, b := range m {
		if !b.Active() {
			continue
		}
		groups[b.Hotkey] = append(groups[b.Hotkey], Member{DeviceID: deviceID, Timestamp: b.Timestamp})
	}

	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Timestamp != group[j].Timestamp {
				return group[i].Timestamp < group[j].Timestamp
			}
			return group[i].DeviceID < group[j].DeviceID
		})
	}
	return groups
}

// Next picks the member after current, wrapping around. When current is
// not in the group the first member is chosen.
func Next(group []Member, current string) (Member, bool) {
	if len(group) == 0 {
		return Member{}, false
	}
	for i, m := range group {
		if m.DeviceID == current {
			return group[(i+1)%len(group)], true
		}
	}
	return group[0], true
}

// RegisterHotkeys replaces every registration with one per distinct hotkey
// among the active bindings. A hotkey the OS refuses is logged and skipped.
func (r *Router) RegisterHotkeys(m map[string]bindings.Binding) error {
	if r.registrar == nil {
		return ErrBackendNotAvailable
	}

	r.UnregisterHotkeys()

	groups := Groups(m)
	hotkeys := make([]string, 0, len(groups))
	for hk := range groups {
		hotkeys = append(hotkeys, hk)
	}
	sort.Strings(hotkeys)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, hk := range hotkeys {
		accel, err := ParseAccelerator(hk)
		if err != nil {
			logger.Error("[ROUTER] Skipping hotkey %q: %v", hk, err)
			continue
		}

		hotkey := hk
		reg, err := r.registrar.Register(accel, func() {
			r.Trigger(context.Background(), hotkey)
		})
		if err != nil {
			logger.Error("[ROUTER] Failed to register hotkey %s: %v", hk, err)
			continue
		}

		r.registrations[hk] = reg
		r.groups[hk] = groups[hk]
		logger.Info("[ROUTER] Registered %s for %d device(s)", hk, len(groups[hk]))
	}
	return nil
}

// UnregisterHotkeys releases every registration. It is safe to call when
// nothing is registered.
func (r *Router) UnregisterHotkeys() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hk, reg := range r.registrations {
		if err := reg.Unregister(); err != nil {
			logger.Warn("[ROUTER] Failed to unregister %s: %v", hk, err)
		}
	}
	if len(r.registrations) > 0 {
		logger.Info("[ROUTER] Unregistered %d hotkey(s)", len(r.registrations))
	}
	r.registrations = map[string]Registration{}
	r.groups = map[string][]Member{}
}

// Registered lists the registered hotkeys in sorted order.
func (r *Router) Registered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.registrations))
	for hk := range r.registrations {
		out = append(out, hk)
	}
	sort.Strings(out)
	return out
}

// Group returns the rotation order registered for hotkey.
func (r *Router) Group(hotkey string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Member(nil), r.groups[hotkey]...)
}

// Trigger handles one press of hotkey: it asks for the current default
// device and makes the next group member the default. A failed lookup of
// the current device falls back to the first member. The chosen device id
// is returned even when setting it failed.
func (r *Router) Trigger(ctx context.Context, hotkey string) (string, error) {
	r.triggerMu.Lock()
	defer r.triggerMu.Unlock()

	group := r.Group(hotkey)
	if len(group) == 0 {
		return "", fmt.Errorf("hotkey %s is not registered", hotkey)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	current, err := r.switcher.CurrentDevice(ctx)
	if err != nil {
		logger.Warn("[ROUTER] %s: could not read current device, using first in group: %v", hotkey, err)
		current = ""
	}

	next, _ := Next(group, current)
	ev := SwitchEvent{
		Hotkey: hotkey,
		From:   current,
		To:     next.DeviceID,
		At:     time.Now(),
	}

	if err := r.switcher.SetDefault(ctx, next.DeviceID); err != nil {
		ev.Err = err
		logger.Error("[ROUTER] %s: failed to switch to %s: %v", hotkey, next.DeviceID, err)
	} else {
		logger.Info("[ROUTER] %s: switched %s -> %s", hotkey, displayID(current), next.DeviceID)
	}

	if r.onSwitch != nil {
		r.onSwitch(ev)
	}
	return next.DeviceID, ev.Err
}

func displayID(id string) string {
	if id == "" {
		return "(unknown)"
	}
	return id
}
