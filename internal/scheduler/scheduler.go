// Package scheduler decides when habit reminders fire. The decision step is
// pure; the run loop drives it from a ticker while the dashboard is open,
// and the hidden notify command drives a single pass for cron-style setups.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/logger"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

// MarkerStore is the slice of local storage the scheduler reads and writes.
type MarkerStore interface {
	IsCompleted(habitID, day string) (bool, error)
	IsReminded(habitID, day string) (bool, error)
	MarkReminded(habitID, day string) error
}

// Alerter delivers due reminders.
type Alerter interface {
	TriggerAlert(notifier.Alert) error
}

// HabitSource supplies the habits to evaluate; the run loop refreshes the
// list on every tick so newly created habits are picked up.
type HabitSource func(ctx context.Context) ([]models.Habit, error)

// Reminder is a due alert for a habit.
type Reminder struct {
	Habit models.Habit
	Day   string
}

type Scheduler struct {
	store   MarkerStore
	alerter Alerter
	habits  HabitSource

	timezone string
	interval time.Duration
}

func New(store MarkerStore, alerter Alerter, habits HabitSource, timezone string, pollIntervalSec int) *Scheduler {
	if pollIntervalSec < constants.MinPollIntervalSec {
		pollIntervalSec = constants.DefaultPollIntervalSec
	}
	return &Scheduler{
		store:    store,
		alerter:  alerter,
		habits:   habits,
		timezone: timezone,
		interval: time.Duration(pollIntervalSec) * time.Second,
	}
}

// Interval returns the poll cadence the scheduler runs at.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Check returns the reminders due at the given instant. A reminder is due
// when the habit has an alert time matching now's wall-clock minute, the
// habit is scheduled on now's weekday, and neither a completion marker nor a
// reminder marker exists for (habit, day).
func (s *Scheduler) Check(now time.Time, habits []models.Habit) ([]Reminder, error) {
	loc, err := utils.LoadLocation(s.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.timezone, err)
	}
	local := now.In(loc)
	minute := utils.ClockMinute(local)
	day := utils.DayKey(local)

	var due []Reminder
	for _, habit := range habits {
		if !habit.Active || !habit.HasAlert() {
			continue
		}
		if habit.AlertTime != minute {
			continue
		}
		if !habit.IsScheduledOn(local) {
			continue
		}

		done, err := s.store.IsCompleted(habit.ID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to check completion marker: %w", err)
		}
		if done {
			continue
		}

		reminded, err := s.store.IsReminded(habit.ID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to check reminder marker: %w", err)
		}
		if reminded {
			continue
		}

		due = append(due, Reminder{Habit: habit, Day: day})
	}
	return due, nil
}

// fire delivers one reminder. The marker is written first so a crash or a
// second pass inside the same minute cannot fire twice.
func (s *Scheduler) fire(reminder Reminder) error {
	if err := s.store.MarkReminded(reminder.Habit.ID, reminder.Day); err != nil {
		return fmt.Errorf("failed to mark reminder: %w", err)
	}

	alert := notifier.Alert{
		Title:   constants.ReminderTitle,
		Body:    fmt.Sprintf("Time to execute: %s", reminder.Habit.Name),
		HabitID: reminder.Habit.ID,
	}
	if err := s.alerter.TriggerAlert(alert); err != nil {
		return fmt.Errorf("failed to deliver reminder for %s: %w", reminder.Habit.Name, err)
	}
	return nil
}

// RunOnce performs a single evaluate-and-fire pass at the given instant.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) ([]Reminder, error) {
	habits, err := s.habits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	due, err := s.Check(now, habits)
	if err != nil {
		return nil, err
	}

	var fired []Reminder
	for _, reminder := range due {
		if ctx.Err() != nil {
			// Shutting down; anything not yet fired is discarded
			return fired, ctx.Err()
		}
		if err := s.fire(reminder); err != nil {
			logger.Warn("Reminder delivery failed", "habitID", reminder.Habit.ID, "error", err)
			continue
		}
		fired = append(fired, reminder)
	}
	return fired, nil
}

// Run polls until the context is cancelled. Errors in a pass are logged and
// the loop keeps going; cancellation is the only exit.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := s.RunOnce(ctx, now); err != nil && ctx.Err() == nil {
				logger.Warn("Scheduler pass failed", "error", err)
			}
		}
	}
}
