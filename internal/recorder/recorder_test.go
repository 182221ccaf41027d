package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/questhacker/questhacker-cli/internal/api"
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
)

type fakeStore struct {
	completed map[string]bool
	events    []models.CompletionEvent
	addErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{completed: make(map[string]bool)}
}

func (f *fakeStore) IsCompleted(habitID, day string) (bool, error) {
	return f.completed[habitID+"|"+day], nil
}

func (f *fakeStore) CompletedHabits(day string) ([]string, error) {
	var ids []string
	for key, done := range f.completed {
		if !done {
			continue
		}
		parts := strings.SplitN(key, "|", 2)
		if len(parts) == 2 && parts[1] == day {
			ids = append(ids, parts[0])
		}
	}
	return ids, nil
}

func (f *fakeStore) AddCompletionEvent(e models.CompletionEvent) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.completed[e.HabitID+"|"+e.Day] = true
	f.events = append(f.events, e)
	return nil
}

type fakeBackend struct {
	result api.CompleteResult
	err    error
	calls  int
}

func (f *fakeBackend) CompleteHabit(ctx context.Context, habitID string) (api.CompleteResult, error) {
	f.calls++
	if f.err != nil {
		return api.CompleteResult{}, f.err
	}
	return f.result, nil
}

type fakeAlerter struct {
	alerts []notifier.Alert
}

func (f *fakeAlerter) TriggerAlert(a notifier.Alert) error {
	f.alerts = append(f.alerts, a)
	return nil
}

func intPtr(n int) *int {
	return &n
}

func testHabit() models.Habit {
	return models.Habit{
		ID:       "habit-1",
		Name:     "Meditate",
		Schedule: models.Schedule{Type: constants.ScheduleDaily},
	}
}

func TestRecordSuccess(t *testing.T) {
	store := newFakeStore()
	backend := &fakeBackend{result: api.CompleteResult{XPEarned: intPtr(20), NewXP: 60}}
	alerter := &fakeAlerter{}
	rec := New(store, backend, alerter, "UTC")

	current := models.Progress{XP: 40, Level: 1}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	result, err := rec.Record(context.Background(), current, testHabit(), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.XPEarned != 20 {
		t.Errorf("expected 20 XP earned, got %d", result.XPEarned)
	}
	if result.Progress.XP != 60 {
		t.Errorf("expected XP 60, got %d", result.Progress.XP)
	}
	if result.Progress.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", result.Progress.CurrentStreak)
	}
	if len(store.events) != 1 || store.events[0].Day != "2026-03-01" {
		t.Errorf("expected one event for 2026-03-01, got %v", store.events)
	}
	if result.LeveledUp {
		t.Error("no level-up expected at 60 XP")
	}
	if len(alerter.alerts) != 0 {
		t.Errorf("unexpected alerts: %v", alerter.alerts)
	}
}

func TestRecordDuplicateIsLocal(t *testing.T) {
	store := newFakeStore()
	store.completed["habit-1|2026-03-01"] = true
	backend := &fakeBackend{}
	rec := New(store, backend, nil, "UTC")

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := rec.Record(context.Background(), models.Progress{}, testHabit(), at)
	if !errors.Is(err, apperrors.ErrAlreadyCompletedToday) {
		t.Fatalf("expected ErrAlreadyCompletedToday, got %v", err)
	}
	if backend.calls != 0 {
		t.Errorf("duplicate must not reach the backend, got %d calls", backend.calls)
	}
}

func TestRecordBackendFailureLeavesNoMarker(t *testing.T) {
	store := newFakeStore()
	backend := &fakeBackend{err: errors.New("connection refused")}
	rec := New(store, backend, nil, "UTC")

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := rec.Record(context.Background(), models.Progress{}, testHabit(), at)
	if err == nil {
		t.Fatal("expected error from backend failure")
	}
	if len(store.events) != 0 {
		t.Errorf("failed recording wrote a marker: %v", store.events)
	}
}

func TestRecordLevelUpAlert(t *testing.T) {
	store := newFakeStore()
	backend := &fakeBackend{result: api.CompleteResult{XPEarned: intPtr(20), NewXP: 110, NewLevel: 2}}
	alerter := &fakeAlerter{}
	rec := New(store, backend, alerter, "UTC")

	current := models.Progress{XP: 90, Level: 1}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	result, err := rec.Record(context.Background(), current, testHabit(), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.LeveledUp {
		t.Error("expected a level-up")
	}
	if len(alerter.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerter.alerts))
	}
	if alerter.alerts[0].Title != constants.LevelUpTitle {
		t.Errorf("expected %q title, got %q", constants.LevelUpTitle, alerter.alerts[0].Title)
	}
}

func TestRecordDayKeyUsesTimezone(t *testing.T) {
	store := newFakeStore()
	backend := &fakeBackend{result: api.CompleteResult{XPEarned: intPtr(20)}}
	rec := New(store, backend, nil, "UTC")

	// 23:30 in UTC-5 is 04:30 the next day in UTC
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2026, 3, 1, 23, 30, 0, 0, loc)

	result, err := rec.Record(context.Background(), models.Progress{}, testHabit(), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event.Day != "2026-03-02" {
		t.Errorf("expected day key in configured timezone, got %s", result.Event.Day)
	}
}

func TestRecordStreakAdvancesOncePerDay(t *testing.T) {
	store := newFakeStore()
	backend := &fakeBackend{result: api.CompleteResult{XPEarned: intPtr(20)}}
	rec := New(store, backend, nil, "UTC")

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	first := models.Habit{ID: "habit-1", Name: "Meditate", Schedule: models.Schedule{Type: constants.ScheduleDaily}}
	result, err := rec.Record(context.Background(), models.Progress{CurrentStreak: 3, LongestStreak: 5}, first, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Progress.CurrentStreak != 4 {
		t.Fatalf("expected first completion to advance streak to 4, got %d", result.Progress.CurrentStreak)
	}

	// Callers rebuild Progress from backend stats between completions, so
	// LastStreakDay is gone; the day's markers must keep the streak from
	// advancing twice.
	rebuilt := models.Progress{XP: result.Progress.XP, CurrentStreak: result.Progress.CurrentStreak, LongestStreak: result.Progress.LongestStreak}

	second := models.Habit{ID: "habit-2", Name: "Read", Schedule: models.Schedule{Type: constants.ScheduleDaily}}
	result, err = rec.Record(context.Background(), rebuilt, second, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Progress.CurrentStreak != 4 {
		t.Errorf("expected streak to stay at 4 for the day's second completion, got %d", result.Progress.CurrentStreak)
	}

	// A completion the next day advances again
	nextDay := at.Add(24 * time.Hour)
	rebuilt = models.Progress{XP: result.Progress.XP, CurrentStreak: result.Progress.CurrentStreak, LongestStreak: result.Progress.LongestStreak}
	result, err = rec.Record(context.Background(), rebuilt, first, nextDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Progress.CurrentStreak != 5 {
		t.Errorf("expected streak 5 on the next day, got %d", result.Progress.CurrentStreak)
	}
}

func TestRecordBackendXPWins(t *testing.T) {
	tests := []struct {
		name   string
		remote api.CompleteResult
		want   int
	}{
		{
			name:   "explicit zero is honored",
			remote: api.CompleteResult{XPEarned: intPtr(0)},
			want:   0,
		},
		{
			name:   "absent field falls back to the local estimate",
			remote: api.CompleteResult{},
			want:   constants.BaseCompletionXP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			backend := &fakeBackend{result: tt.remote}
			rec := New(store, backend, nil, "UTC")

			at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
			result, err := rec.Record(context.Background(), models.Progress{}, testHabit(), at)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.XPEarned != tt.want {
				t.Errorf("expected %d XP earned, got %d", tt.want, result.XPEarned)
			}
		})
	}
}

func TestXPGain(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		want  int
	}{
		{
			name:  "simple habit",
			habit: models.Habit{ID: "h", Schedule: models.Schedule{Type: constants.ScheduleDaily}},
			want:  20,
		},
		{
			name: "measurable halfway",
			habit: models.Habit{
				ID:       "h",
				Schedule: models.Schedule{Type: constants.ScheduleDaily},
				Goal:     &models.Goal{Start: 0, Target: 10, Current: 5},
			},
			want: 30,
		},
		{
			name: "measurable overachieved clamps",
			habit: models.Habit{
				ID:       "h",
				Schedule: models.Schedule{Type: constants.ScheduleDaily},
				Goal:     &models.Goal{Start: 0, Target: 10, Current: 25},
			},
			want: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XPGain(&tt.habit); got != tt.want {
				t.Errorf("XPGain() = %d, want %d", got, tt.want)
			}
		})
	}
}
