package stats

import (
	"sort"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// SwitchRecord is one hotkey press and its outcome.
type SwitchRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Hotkey    string    `json:"hotkey"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (r SwitchRecord) Failed() bool {
	return r.Error != ""
}

type DailyStats struct {
	Date         string         `json:"date"`
	Switches     []SwitchRecord `json:"switches"`
	SwitchCount  int            `json:"switch_count"`
	FailureCount int            `json:"failure_count"`
}

// Summary aggregates a range of days.
type Summary struct {
	Days          int            `json:"days"`
	ActiveDays    int            `json:"active_days"`
	TotalSwitches int            `json:"total_switches"`
	Failures      int            `json:"failures"`
	PerDevice     map[string]int `json:"per_device"`
	PerHotkey     map[string]int `json:"per_hotkey"`
	Last          *SwitchRecord  `json:"last,omitempty"`
}

// DeviceCount is one row of a per-device breakdown.
type DeviceCount struct {
	DeviceID string
	Count    int
}

// TopDevices returns the per-device counts, most used first.
func (s *Summary) TopDevices() []DeviceCount {
	counts := make([]DeviceCount, 0, len(s.PerDevice))
	for id, n := range s.PerDevice {
		counts = append(counts, DeviceCount{DeviceID: id, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].DeviceID < counts[j].DeviceID
	})
	return counts
}

// Manager records switch outcomes and answers history queries.
type Manager struct {
	mu      sync.Mutex
	storage *Storage
	now     func() time.Time
}

func NewManager(baseDir string) (*Manager, error) {
	storage, err := NewStorage(baseDir)
	if err != nil {
		return nil, err
	}

	return &Manager{
		storage: storage,
		now:     time.Now,
	}, nil
}

// Record appends one switch outcome to today's file. A zero timestamp is
// stamped with the current time.
func (m *Manager) Record(rec SwitchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = m.now()
	}
	return m.storage.SaveSwitch(rec)
}

func (m *Manager) GetToday() (*DailyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storage.GetDailyStats(m.now().Format(dateLayout))
}

func (m *Manager) GetRecentDays(days int) ([]*DailyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storage.GetRecentDays(m.now(), days)
}

// Summary aggregates the last days, today included.
func (m *Manager) Summary(days int) (*Summary, error) {
	recent, err := m.GetRecentDays(days)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Days:      days,
		PerDevice: map[string]int{},
		PerHotkey: map[string]int{},
	}
	for _, day := range recent {
		if day.SwitchCount == 0 {
			continue
		}
		summary.ActiveDays++
		summary.TotalSwitches += day.SwitchCount
		summary.Failures += day.FailureCount

		for i := range day.Switches {
			rec := day.Switches[i]
			summary.PerHotkey[rec.Hotkey]++
			if !rec.Failed() {
				summary.PerDevice[rec.To]++
			}
			if summary.Last == nil || rec.Timestamp.After(summary.Last.Timestamp) {
				summary.Last = &rec
			}
		}
	}

	return summary, nil
}

func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storage.ClearAll()
}
