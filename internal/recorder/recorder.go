// Package recorder turns "I did this habit" into a durable record: local
// duplicate check, authoritative backend call, marker write, ledger update,
// and the level-up alert when one is due.
package recorder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/questhacker/questhacker-cli/internal/api"
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/logger"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/progress"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

// Backend is the slice of the API client the recorder needs.
type Backend interface {
	CompleteHabit(ctx context.Context, habitID string) (api.CompleteResult, error)
}

// MarkerStore persists local completion markers.
type MarkerStore interface {
	IsCompleted(habitID, day string) (bool, error)
	CompletedHabits(day string) ([]string, error)
	AddCompletionEvent(models.CompletionEvent) error
}

// Alerter delivers the level-up alert.
type Alerter interface {
	TriggerAlert(notifier.Alert) error
}

type Recorder struct {
	store    MarkerStore
	backend  Backend
	alerter  Alerter
	timezone string
}

// Result reports a successful recording: the updated ledger and what the
// completion earned.
type Result struct {
	Progress  models.Progress
	Event     models.CompletionEvent
	XPEarned  int
	LeveledUp bool
}

func New(store MarkerStore, backend Backend, alerter Alerter, timezone string) *Recorder {
	return &Recorder{
		store:    store,
		backend:  backend,
		alerter:  alerter,
		timezone: timezone,
	}
}

// XPGain computes the XP a completion of this habit earns: a flat base plus
// a proportional bonus for measurable habits, scaled by how much of the goal
// range has been covered.
func XPGain(habit *models.Habit) int {
	gain := constants.BaseCompletionXP
	if habit.Goal != nil {
		gain += int(math.Round(constants.BaseCompletionXP * habit.ProgressFraction()))
	}
	return gain
}

// Record registers a completion of habit at the given instant. The backend
// call is authoritative: if it fails, nothing is written locally and the
// ledger is untouched. At most one completion per habit per calendar day.
func (r *Recorder) Record(ctx context.Context, current models.Progress, habit models.Habit, at time.Time) (Result, error) {
	day, err := utils.DayKeyInTimezone(at, r.timezone)
	if err != nil {
		return Result{}, err
	}

	done, err := r.store.IsCompleted(habit.ID, day)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check completion marker: %w", err)
	}
	if done {
		return Result{}, apperrors.ErrAlreadyCompletedToday
	}

	// The streak advances at most once per calendar day, across all
	// habits. Any marker already present for today means it advanced on an
	// earlier completion, so the check must happen before this event is
	// written.
	priorToday, err := r.store.CompletedHabits(day)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list today's completions: %w", err)
	}

	remote, err := r.backend.CompleteHabit(ctx, habit.ID)
	if err != nil {
		return Result{}, err
	}

	// The backend's figure wins when present, zero included
	xpEarned := XPGain(&habit)
	if remote.XPEarned != nil {
		xpEarned = *remote.XPEarned
	}

	event := models.CompletionEvent{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		CompletedAt: at,
		Day:         day,
		XPEarned:    xpEarned,
	}
	if err := r.store.AddCompletionEvent(event); err != nil {
		// The backend accepted the completion; the local marker is display
		// state and must not undo that.
		logger.Warn("Failed to persist completion marker", "habitID", habit.ID, "day", day, "error", err)
	}

	oldLevel := current.Level
	if oldLevel == 0 {
		oldLevel = progress.Level(current.XP)
	}

	if len(priorToday) > 0 {
		// Callers rebuild Progress from backend stats, which do not carry
		// LastStreakDay; the markers say whether today already counted.
		current.LastStreakDay = day
	}
	updated := progress.ApplyCompletion(current, xpEarned, day)
	// Trust the backend's totals when it reports them
	if remote.NewXP > 0 {
		updated.XP = remote.NewXP
		updated.Level = progress.Level(remote.NewXP)
	}
	if remote.NewLevel > 0 {
		updated.Level = remote.NewLevel
	}

	result := Result{
		Progress:  updated,
		Event:     event,
		XPEarned:  xpEarned,
		LeveledUp: updated.Level > oldLevel,
	}

	if result.LeveledUp && r.alerter != nil {
		alert := notifier.Alert{
			Title:   constants.LevelUpTitle,
			Body:    fmt.Sprintf("You reached level %d", updated.Level),
			HabitID: habit.ID,
		}
		if err := r.alerter.TriggerAlert(alert); err != nil {
			logger.Warn("Failed to deliver level-up alert", "error", err)
		}
	}

	return result, nil
}
