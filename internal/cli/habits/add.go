package habits

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

type HabitAddCmd struct {
	Name      string `arg:"" optional:"" help:"Habit name. Prompted interactively when omitted."`
	Schedule  string `help:"Schedule type: daily or weekdays." default:"daily"`
	Weekdays  string `help:"Comma-separated weekdays for a weekday schedule (e.g. mon,wed,fri)."`
	AlertTime string `help:"Reminder time (HH:MM). Empty disables reminders." name:"alert-time"`
	Target    string `help:"Measurable goal target (e.g. 10)."`
	Unit      string `help:"Unit for a measurable goal (e.g. pages)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Name == "" {
		if err := c.promptForm(); err != nil {
			return err
		}
	}

	habit := models.Habit{
		Name:      strings.TrimSpace(c.Name),
		AlertTime: c.AlertTime,
		Active:    true,
	}

	switch c.Schedule {
	case "", string(constants.ScheduleDaily):
		habit.Schedule = models.Schedule{Type: constants.ScheduleDaily}
	case string(constants.ScheduleWeekdays):
		weekdays, err := cli.ParseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		habit.Schedule = models.Schedule{Type: constants.ScheduleWeekdays, WeekdayMask: weekdays}
	default:
		return fmt.Errorf("invalid schedule type %q (expected daily or weekdays)", c.Schedule)
	}

	if c.Target != "" {
		target, err := strconv.ParseFloat(c.Target, 64)
		if err != nil {
			return fmt.Errorf("invalid goal target %q: %w", c.Target, err)
		}
		habit.Goal = &models.Goal{Target: target, Unit: c.Unit}
	}

	if err := habit.Validate(); err != nil {
		return err
	}

	created, err := ctx.Client.CreateHabit(context.Background(), habit)
	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	fmt.Printf("✓ Added habit %q (%s)\n", created.Name, created.FormatSchedule())
	return nil
}

func (c *HabitAddCmd) promptForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Schedule").
				Options(
					huh.NewOption("Daily", string(constants.ScheduleDaily)),
					huh.NewOption("Specific weekdays", string(constants.ScheduleWeekdays)),
				).
				Value(&c.Schedule),
			huh.NewInput().
				Title("Weekdays").
				Description("Comma-separated, only for weekday schedules (e.g. mon,wed,fri)").
				Value(&c.Weekdays),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Description("Leave empty for no reminder").
				Value(&c.AlertTime).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("expected HH:MM")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula()).Run()
}
