package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestRecordAndToday(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	m := newTestManager(t, now)

	require.NoError(t, m.Record(SwitchRecord{Hotkey: "Ctrl+F1", From: "a", To: "b"}))
	require.NoError(t, m.Record(SwitchRecord{Hotkey: "Ctrl+F1", Error: "svcl failed"}))

	today, err := m.GetToday()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", today.Date)
	assert.Equal(t, 2, today.SwitchCount)
	assert.Equal(t, 1, today.FailureCount)
	assert.True(t, now.Equal(today.Switches[0].Timestamp))
}

func TestSummaryAcrossDays(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	m := newTestManager(t, now)

	records := []SwitchRecord{
		{Timestamp: now.AddDate(0, 0, -10), Hotkey: "F1", To: "old"},
		{Timestamp: now.AddDate(0, 0, -2), Hotkey: "F1", To: "speakers"},
		{Timestamp: now.AddDate(0, 0, -1), Hotkey: "F1", To: "headset"},
		{Timestamp: now.Add(-time.Hour), Hotkey: "F2", To: "headset"},
		{Timestamp: now.Add(-time.Minute), Hotkey: "F2", Error: "boom"},
	}
	for _, rec := range records {
		require.NoError(t, m.Record(rec))
	}

	summary, err := m.Summary(7)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ActiveDays)
	assert.Equal(t, 4, summary.TotalSwitches)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, map[string]int{"speakers": 1, "headset": 2}, summary.PerDevice)
	assert.Equal(t, map[string]int{"F1": 2, "F2": 2}, summary.PerHotkey)
	require.NotNil(t, summary.Last)
	assert.Equal(t, "boom", summary.Last.Error)

	assert.Equal(t, []DeviceCount{{"headset", 2}, {"speakers", 1}}, summary.TopDevices())
}

func TestCorruptDayIsSkipped(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	m := newTestManager(t, now)

	path := m.storage.dailyPath("2026-03-13")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	recent, err := m.GetRecentDays(3)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// A corrupt day is replaced on the next write.
	require.NoError(t, m.Record(SwitchRecord{Timestamp: now.AddDate(0, 0, -1), Hotkey: "F1", To: "x"}))
	day, err := m.storage.GetDailyStats("2026-03-13")
	require.NoError(t, err)
	assert.Equal(t, 1, day.SwitchCount)
}

func TestClear(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)
	require.NoError(t, m.Record(SwitchRecord{Hotkey: "F1", To: "x"}))

	require.NoError(t, m.Clear())

	files, err := filepath.Glob(filepath.Join(m.storage.baseDir, dailyStatsDir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)

	summary, err := m.Summary(7)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSwitches)
}

func TestFormatSummary(t *testing.T) {
	assert.Contains(t, FormatSummary(nil, nil), "No switches recorded yet")

	summary := &Summary{
		Days:          7,
		ActiveDays:    2,
		TotalSwitches: 3,
		Failures:      1,
		PerDevice:     map[string]int{"{id-1}": 2},
		Last:          &SwitchRecord{Timestamp: time.Now(), Hotkey: "F1", To: "{id-1}"},
	}
	out := FormatSummary(summary, map[string]string{"{id-1}": "Speakers(Realtek)"})

	assert.Contains(t, out, "Active days: 2/7")
	assert.Contains(t, out, "Switches: 3 (1 failed)")
	assert.Contains(t, out, "   2  Speakers(Realtek)")
	assert.Contains(t, out, "Last switch: just now → Speakers(Realtek)")
}

func TestFormatSwitchLine(t *testing.T) {
	assert.Equal(t, "🔊 F1 → {id}", FormatSwitchLine(SwitchRecord{Hotkey: "F1", To: "{id}"}, nil))
	assert.Equal(t, "❌ F1: no device", FormatSwitchLine(SwitchRecord{Hotkey: "F1", Error: "no device"}, nil))
}

func TestFormatAgo(t *testing.T) {
	assert.Equal(t, "just now", FormatAgo(10*time.Second))
	assert.Equal(t, "5m ago", FormatAgo(5*time.Minute))
	assert.Equal(t, "3h ago", FormatAgo(3*time.Hour))
	assert.Equal(t, "2d ago", FormatAgo(49*time.Hour))
}
