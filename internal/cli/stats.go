package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatsCmd renders the backend's progress snapshot.
type StatsCmd struct{}

var (
	statsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statsLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(16)
	statsBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func (c *StatsCmd) Run(ctx *Context) error {
	stats, err := ctx.Client.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	fmt.Println(statsTitleStyle.Render(stats.Title))
	fmt.Printf("%s %d (level %d)\n", statsLabelStyle.Render("XP"), stats.XP, stats.Level)
	fmt.Printf("%s %d current / %d longest\n", statsLabelStyle.Render("Streak"), stats.CurrentStreak, stats.LongestStreak)
	fmt.Printf("%s %d\n", statsLabelStyle.Render("Shields"), stats.Shields)
	fmt.Printf("%s %d/%d completed today\n", statsLabelStyle.Render("Habits"), stats.CompletedToday, stats.TotalHabits)

	if len(stats.Badges) > 0 {
		fmt.Printf("%s %s\n", statsLabelStyle.Render("Badges"), statsBadgeStyle.Render(strings.Join(stats.Badges, " · ")))
	}
	return nil
}
