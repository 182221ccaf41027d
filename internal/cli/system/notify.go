package system

import (
	"context"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/scheduler"
)

// NotifyCmd is the background entrypoint shared by cron-style reminder
// delivery and the push relay: with --payload it dispatches an inbound push
// notification, without it it runs a single reminder pass against the
// current wall-clock minute.
type NotifyCmd struct {
	Payload string `help:"Inbound push payload (JSON) to dispatch instead of running a reminder pass."`
	DryRun  bool   `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	if c.Payload != "" {
		return c.dispatchPayload(ctx)
	}
	return c.reminderPass(ctx)
}

func (c *NotifyCmd) dispatchPayload(ctx *cli.Context) error {
	alert, err := notifier.ParsePushPayload([]byte(c.Payload))
	if err != nil {
		return err
	}

	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", alert.Title, alert.Body)
		return nil
	}
	return ctx.Dispatcher.TriggerAlert(alert)
}

func (c *NotifyCmd) reminderPass(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	habitSource := func(hctx context.Context) ([]models.Habit, error) {
		return ctx.Client.Habits(hctx)
	}

	s := scheduler.New(ctx.Store, ctx.Dispatcher, habitSource, settings.Timezone, settings.PollIntervalSec)

	if c.DryRun {
		// Evaluate only: no markers written, nothing delivered
		habits, err := habitSource(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load habits: %w", err)
		}
		due, err := s.Check(time.Now(), habits)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("No reminders due.")
			return nil
		}
		for _, reminder := range due {
			fmt.Printf("[DryRun] Time to execute: %s\n", reminder.Habit.Name)
		}
		return nil
	}

	_, err = s.RunOnce(context.Background(), time.Now())
	return err
}
