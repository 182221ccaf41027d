package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/questhacker/questhacker-cli/internal/api"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

// Context carries the shared dependencies into every command.
type Context struct {
	Store      storage.Provider
	Client     *api.Client
	Dispatcher *notifier.Dispatcher
}

// Settings loads the client settings, falling back to defaults on a fresh
// store.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		day := strings.ToLower(strings.TrimSpace(part))
		if day == "" {
			continue
		}
		wd, ok := dayMap[day]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %q", part)
		}
		weekdays = append(weekdays, wd)
	}

	if len(weekdays) == 0 {
		return nil, fmt.Errorf("no weekdays specified")
	}
	return weekdays, nil
}
