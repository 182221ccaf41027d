package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/progress"
	"github.com/questhacker/questhacker-cli/internal/recorder"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

type dataLoadedMsg struct {
	stats     models.Stats
	habits    []models.Habit
	completed map[string]bool
}

type dataErrMsg struct {
	err error
}

type toastMsg notifier.Alert

type toastPruneMsg struct{}

type schedTickMsg time.Time

type connTickMsg struct{}

type connStatusMsg struct {
	online bool
}

type completeDoneMsg struct {
	result recorder.Result
	name   string
}

type completeErrMsg struct {
	err  error
	name string
}

const connCheckInterval = 30 * time.Second

func (m Model) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.BackendTimeout)
		defer cancel()

		stats, err := m.client.Stats(ctx)
		if err != nil {
			return dataErrMsg{err: err}
		}
		habits, err := m.client.Habits(ctx)
		if err != nil {
			return dataErrMsg{err: err}
		}

		completed := make(map[string]bool)
		today, err := utils.TodayFromSettings(m.settings)
		if err == nil {
			if ids, err := m.store.CompletedHabits(today); err == nil {
				for _, id := range ids {
					completed[id] = true
				}
			}
		}
		return dataLoadedMsg{stats: stats, habits: habits, completed: completed}
	}
}

func (m Model) waitForAlert() tea.Cmd {
	ch := m.sink.ch
	return func() tea.Msg {
		return toastMsg(<-ch)
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.sched.Interval(), func(t time.Time) tea.Msg {
		return schedTickMsg(t)
	})
}

func (m Model) connectivityTick() tea.Cmd {
	return tea.Tick(connCheckInterval, func(time.Time) tea.Msg {
		return connTickMsg{}
	})
}

func (m Model) runSchedulerPass(now time.Time) tea.Cmd {
	sched := m.sched
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.BackendTimeout)
		defer cancel()
		sched.RunOnce(ctx, now)
		return nil
	}
}

func (m Model) checkConnectivity() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return connStatusMsg{online: client.Reachable(ctx)}
	}
}

func (m Model) completeHabit(habit models.Habit) tea.Cmd {
	rec := recorder.New(m.store, m.client, m.dispatcher, m.settings.Timezone)
	current := m.stats.Progress()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.BackendTimeout)
		defer cancel()

		result, err := rec.Record(ctx, current, habit, time.Now())
		if err != nil {
			return completeErrMsg{err: err, name: habit.Name}
		}
		return completeDoneMsg{result: result, name: habit.Name}
	}
}

func (m *Model) pushToast(alert notifier.Alert) {
	m.toasts = append(m.toasts, toast{
		alert:   alert,
		expires: time.Now().Add(time.Duration(constants.NotificationDurationMs) * time.Millisecond),
	})
}

func (m *Model) pruneToasts() {
	now := time.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.expires.After(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The add-habit form owns the keyboard while it is open
	if m.state == stateAddHabit {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = stateHabits
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			createCmd := m.createHabit(*m.habitForm)
			m.state = stateHabits
			m.form = nil
			return m, tea.Batch(append(cmds, createCmd)...)
		case huh.StateAborted:
			m.state = stateHabits
			m.form = nil
			return m, nil
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.dispatcher.SetSink(nil)
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab):
			if m.state == stateStats {
				m.state = stateHabits
			} else {
				m.state = stateStats
			}
		case key.Matches(msg, m.keys.Up):
			if m.state == stateHabits && m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.state == stateHabits && m.selected < len(m.habits)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Complete):
			if m.state == stateHabits && m.selected < len(m.habits) {
				habit := m.habits[m.selected]
				if !m.completed[habit.ID] {
					return m, m.completeHabit(habit)
				}
			}
		case key.Matches(msg, m.keys.Add):
			if m.state == stateHabits {
				m.habitForm = &HabitFormModel{Schedule: string(constants.ScheduleDaily)}
				m.form = newHabitForm(m.habitForm)
				m.state = stateAddHabit
				return m, m.form.Init()
			}
		case key.Matches(msg, m.keys.Mute):
			m.muted = !m.muted
			if err := m.store.SetMuted(m.muted); err != nil {
				m.statusErr = err.Error()
				m.muted = !m.muted
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadData()
		}

	case dataLoadedMsg:
		m.loading = false
		m.statusErr = ""
		m.stats = msg.stats
		m.habits = msg.habits
		m.completed = msg.completed
		if m.selected >= len(m.habits) {
			m.selected = 0
		}

	case refreshMsg:
		m.loading = true
		cmds = append(cmds, m.loadData())

	case dataErrMsg:
		m.loading = false
		m.statusErr = msg.err.Error()

	case toastMsg:
		m.pushToast(notifier.Alert(msg))
		cmds = append(cmds, m.waitForAlert(), tea.Tick(time.Second, func(time.Time) tea.Msg {
			return toastPruneMsg{}
		}))

	case toastPruneMsg:
		m.pruneToasts()
		if len(m.toasts) > 0 {
			cmds = append(cmds, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return toastPruneMsg{}
			}))
		}

	case schedTickMsg:
		cmds = append(cmds, m.runSchedulerPass(time.Time(msg)), m.scheduleTick())

	case connTickMsg:
		cmds = append(cmds, m.checkConnectivity(), m.connectivityTick())

	case connStatusMsg:
		if m.onlineKnown && msg.online != m.online {
			if msg.online {
				m.pushToast(notifier.Alert{Title: "CONNECTION", Body: "link established"})
				cmds = append(cmds, m.loadData())
			} else {
				m.pushToast(notifier.Alert{Title: "CONNECTION", Body: "link severed"})
			}
			cmds = append(cmds, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return toastPruneMsg{}
			}))
		}
		m.online = msg.online
		m.onlineKnown = true

	case completeDoneMsg:
		m.stats.XP = msg.result.Progress.XP
		m.stats.Level = msg.result.Progress.Level
		m.stats.CurrentStreak = msg.result.Progress.CurrentStreak
		m.stats.LongestStreak = msg.result.Progress.LongestStreak
		m.stats.Badges = msg.result.Progress.Badges
		m.stats.Title = progress.TitleForLevel(msg.result.Progress.Level)
		m.stats.CompletedToday++
		m.completed[msg.result.Event.HabitID] = true
		m.pushToast(notifier.Alert{
			Title: "COMPLETED",
			Body:  fmt.Sprintf("%s (+%d XP)", msg.name, msg.result.XPEarned),
		})
		cmds = append(cmds, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return toastPruneMsg{}
		}))

	case completeErrMsg:
		if errors.Is(msg.err, apperrors.ErrAlreadyCompletedToday) {
			m.pushToast(notifier.Alert{Title: "COMPLETED", Body: fmt.Sprintf("%s is already done today", msg.name)})
			cmds = append(cmds, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return toastPruneMsg{}
			}))
		} else {
			m.statusErr = msg.err.Error()
		}
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) createHabit(form HabitFormModel) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		habit := models.Habit{
			Name:      strings.TrimSpace(form.Name),
			AlertTime: form.AlertTime,
			Active:    true,
		}
		if form.Schedule == string(constants.ScheduleWeekdays) {
			weekdays, err := cli.ParseWeekdays(form.Weekdays)
			if err != nil {
				return dataErrMsg{err: err}
			}
			habit.Schedule = models.Schedule{Type: constants.ScheduleWeekdays, WeekdayMask: weekdays}
		} else {
			habit.Schedule = models.Schedule{Type: constants.ScheduleDaily}
		}
		if err := habit.Validate(); err != nil {
			return dataErrMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), constants.BackendTimeout)
		defer cancel()
		if _, err := client.CreateHabit(ctx, habit); err != nil {
			return dataErrMsg{err: err}
		}
		return refreshMsg{}
	}
}

type refreshMsg struct{}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
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
				Value(&fm.Schedule),
			huh.NewInput().
				Title("Weekdays").
				Description("Comma-separated, only for weekday schedules (e.g. mon,wed,fri)").
				Value(&fm.Weekdays),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Description("Leave empty for no reminder").
				Value(&fm.AlertTime).
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
	).WithTheme(huh.ThemeDracula())
}
