package habits

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

type HabitListCmd struct{}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Client.Habits(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch habits: %w", err)
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'qh habit add'.")
		return nil
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	today, err := utils.TodayFromSettings(settings)
	if err != nil {
		return err
	}

	// Backend is authoritative for today's completions; fall back to
	// local markers if the call fails.
	completed := make(map[string]bool)
	if events, err := ctx.Client.CompletionsToday(context.Background()); err == nil {
		for _, event := range events {
			completed[event.HabitID] = true
		}
	} else if ids, err := ctx.Store.CompletedHabits(today); err == nil {
		for _, id := range ids {
			completed[id] = true
		}
	}

	for _, habit := range habits {
		mark := pendingStyle.Render("[ ]")
		if completed[habit.ID] {
			mark = doneStyle.Render("[✓]")
		}

		detail := habit.FormatSchedule()
		if habit.HasAlert() {
			detail += " · alert " + habit.AlertTime
		}
		if habit.Goal != nil {
			detail += fmt.Sprintf(" · %.0f/%.0f %s", habit.Goal.Current, habit.Goal.Target, habit.Goal.Unit)
		}

		fmt.Printf("%s %s  %s\n", mark, habit.Name, detailStyle.Render(detail))
	}
	return nil
}
