package habits

import (
	"context"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

// HabitLogCmd renders the locally recorded completion history, newest day
// first.
type HabitLogCmd struct {
	Days int `help:"Number of days to show." default:"7"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", c.Days)
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return err
	}
	endDay := utils.DayKey(now)
	startDay := utils.DayKey(now.AddDate(0, 0, -(c.Days - 1)))

	events, err := ctx.Store.GetCompletionEvents(startDay, endDay)
	if err != nil {
		return fmt.Errorf("failed to load completion history: %w", err)
	}
	if len(events) == 0 {
		fmt.Printf("No completions recorded in the last %d day(s).\n", c.Days)
		return nil
	}

	// Habit names are display sugar; ids still render when the backend is
	// unreachable.
	names := make(map[string]string)
	if habits, err := ctx.Client.Habits(context.Background()); err == nil {
		for _, habit := range habits {
			names[habit.ID] = habit.Name
		}
	}

	for _, line := range buildLog(events, names) {
		fmt.Println(line)
	}
	return nil
}

// buildLog groups events by day, newest day first, preserving completion
// order within each day.
func buildLog(events []models.CompletionEvent, names map[string]string) []string {
	byDay := make(map[string][]models.CompletionEvent)
	var days []string
	for _, event := range events {
		if _, seen := byDay[event.Day]; !seen {
			days = append(days, event.Day)
		}
		byDay[event.Day] = append(byDay[event.Day], event)
	}

	var lines []string
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		lines = append(lines, day)
		for _, event := range byDay[day] {
			name := names[event.HabitID]
			if name == "" {
				name = event.HabitID
			}
			lines = append(lines, fmt.Sprintf("  %s  %s (+%d XP)",
				event.CompletedAt.Format(time.Kitchen), name, event.XPEarned))
		}
	}
	return lines
}
