package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bezmoradi/sinkswitch/internal/logger"
	"github.com/bezmoradi/sinkswitch/internal/storage"
)

const dailyStatsDir = "daily"

// Storage keeps one JSON file per calendar day.
type Storage struct {
	baseDir string
}

func NewStorage(baseDir string) (*Storage, error) {
	dailyDir := filepath.Join(baseDir, dailyStatsDir)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	return &Storage{
		baseDir: baseDir,
	}, nil
}

func (s *Storage) dailyPath(date string) string {
	return filepath.Join(s.baseDir, dailyStatsDir, date+".json")
}

func (s *Storage) SaveSwitch(rec SwitchRecord) error {
	date := rec.Timestamp.Format(dateLayout)

	daily, err := s.GetDailyStats(date)
	if err != nil {
		logger.Warn("[STATS] Discarding unreadable %s: %v", date, err)
		daily = &DailyStats{Date: date}
	}

	daily.Switches = append(daily.Switches, rec)
	daily.SwitchCount = len(daily.Switches)
	if rec.Failed() {
		daily.FailureCount++
	}

	return s.saveDailyStats(daily)
}

// GetDailyStats returns the stats of one day; a day without a file is empty.
func (s *Storage) GetDailyStats(date string) (*DailyStats, error) {
	data, err := os.ReadFile(s.dailyPath(date))
	if os.IsNotExist(err) {
		return &DailyStats{Date: date, Switches: []SwitchRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var daily DailyStats
	if err := json.Unmarshal(data, &daily); err != nil {
		return nil, fmt.Errorf("decode %s: %w", date, err)
	}
	return &daily, nil
}

func (s *Storage) saveDailyStats(daily *DailyStats) error {
	data, err := json.MarshalIndent(daily, "", "  ")
	if err != nil {
		return err
	}
	return storage.WriteAtomic(s.dailyPath(daily.Date), data)
}

// GetRecentDays returns the given number of days ending at now, oldest
// first. Unreadable days are skipped.
func (s *Storage) GetRecentDays(now time.Time, days int) ([]*DailyStats, error) {
	var recent []*DailyStats

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		daily, err := s.GetDailyStats(date)
		if err != nil {
			continue
		}
		recent = append(recent, daily)
	}

	return recent, nil
}

func (s *Storage) ClearAll() error {
	dailyDir := filepath.Join(s.baseDir, dailyStatsDir)

	files, err := os.ReadDir(dailyDir)
	if err != nil {
		return nil
	}

	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".json" {
			if err := os.Remove(filepath.Join(dailyDir, file.Name())); err != nil {
				return fmt.Errorf("failed to remove %s: %w", file.Name(), err)
			}
		}
	}

	return nil
}
