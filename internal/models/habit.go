package models

import (
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/constants"
)

// Schedule describes which days a habit is expected to be completed.
// A habit is either due every day or on an explicit set of weekdays.
type Schedule struct {
	Type        constants.ScheduleType `json:"type"`
	WeekdayMask []time.Weekday         `json:"weekday_mask,omitempty"`
}

// Goal is an optional measurable target attached to a habit.
type Goal struct {
	Start   float64 `json:"start"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Unit    string  `json:"unit,omitempty"`
}

// Habit represents a recurring practice tracked by the backend.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Schedule  Schedule  `json:"schedule"`
	AlertTime string    `json:"alert_time,omitempty"` // HH:MM format
	Goal      *Goal     `json:"goal,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Habit) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	switch h.Schedule.Type {
	case constants.ScheduleDaily:
	case constants.ScheduleWeekdays:
		if len(h.Schedule.WeekdayMask) == 0 {
			return fmt.Errorf("weekdays must be specified for a weekday schedule")
		}
	default:
		return fmt.Errorf("invalid schedule type: %s", h.Schedule.Type)
	}

	if h.AlertTime != "" {
		if _, err := time.Parse(constants.TimeFormat, h.AlertTime); err != nil {
			return fmt.Errorf("invalid alert time format (expected HH:MM): %w", err)
		}
	}

	if h.Goal != nil {
		if h.Goal.Target == h.Goal.Start {
			return fmt.Errorf("goal target must differ from goal start")
		}
	}

	return nil
}

// IsScheduledOn reports whether the habit is due on the given day.
func (h *Habit) IsScheduledOn(day time.Time) bool {
	switch h.Schedule.Type {
	case constants.ScheduleDaily:
		return true
	case constants.ScheduleWeekdays:
		weekday := day.Weekday()
		for _, wd := range h.Schedule.WeekdayMask {
			if wd == weekday {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// HasAlert reports whether the habit has a reminder time configured.
func (h *Habit) HasAlert() bool {
	return h.AlertTime != ""
}

// ProgressFraction returns the completed share of a measurable goal,
// clamped to [0, 1]. Habits without a goal report 0.
func (h *Habit) ProgressFraction() float64 {
	if h.Goal == nil {
		return 0
	}
	span := h.Goal.Target - h.Goal.Start
	if span == 0 {
		return 0
	}
	frac := (h.Goal.Current - h.Goal.Start) / span
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// FormatSchedule returns a human-readable description of the habit schedule.
func (h *Habit) FormatSchedule() string {
	switch h.Schedule.Type {
	case constants.ScheduleDaily:
		return "daily"
	case constants.ScheduleWeekdays:
		days := make([]string, len(h.Schedule.WeekdayMask))
		for i, wd := range h.Schedule.WeekdayMask {
			days[i] = wd.String()[:3]
		}
		out := ""
		for i, d := range days {
			if i > 0 {
				out += ","
			}
			out += d
		}
		return out
	default:
		return "unknown"
	}
}
