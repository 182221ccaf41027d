package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/questhacker/questhacker-cli/internal/cli"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/recorder"
)

type HabitCompleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	habits, err := ctx.Client.Habits(bg)
	if err != nil {
		return fmt.Errorf("failed to fetch habits: %w", err)
	}

	habit, err := resolveHabit(habits, c.Habit)
	if err != nil {
		return err
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	stats, err := ctx.Client.Stats(bg)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	rec := recorder.New(ctx.Store, ctx.Client, ctx.Dispatcher, settings.Timezone)
	result, err := rec.Record(bg, stats.Progress(), habit, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCompletedToday) {
			fmt.Printf("%q is already completed today.\n", habit.Name)
			return nil
		}
		return err
	}

	fmt.Printf("✓ Completed %q (+%d XP)\n", habit.Name, result.XPEarned)
	if result.LeveledUp {
		fmt.Printf("  LEVEL UP! You reached level %d.\n", result.Progress.Level)
	}
	if result.Progress.CurrentStreak > 1 {
		fmt.Printf("  Streak: %d days\n", result.Progress.CurrentStreak)
	}
	return nil
}

// resolveHabit matches by id first, then by case-insensitive name.
func resolveHabit(habits []models.Habit, query string) (models.Habit, error) {
	for _, h := range habits {
		if h.ID == query {
			return h, nil
		}
	}
	lowered := strings.ToLower(query)
	var matches []models.Habit
	for _, h := range habits {
		if strings.ToLower(h.Name) == lowered {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Habit{}, fmt.Errorf("no habit matching %q", query)
	default:
		return models.Habit{}, fmt.Errorf("multiple habits named %q, use the id", query)
	}
}
