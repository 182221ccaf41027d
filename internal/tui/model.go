// Package tui implements the dashboard: stats, today's habits, in-app
// alerts, and the reminder loop that runs while the dashboard is open.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/questhacker/questhacker-cli/internal/api"
	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/scheduler"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

type sessionState int

const (
	stateStats sessionState = iota
	stateHabits
	stateAddHabit
)

// toast is an in-app alert with its display deadline.
type toast struct {
	alert   notifier.Alert
	expires time.Time
}

type HabitFormModel struct {
	Name      string
	Schedule  string
	Weekdays  string
	AlertTime string
}

// alertSink feeds dispatcher alerts into the bubbletea loop. Non-blocking:
// if the buffer is full the alert is dropped rather than stalling the
// dispatcher.
type alertSink struct {
	ch chan notifier.Alert
}

func (s alertSink) Toast(alert notifier.Alert) {
	select {
	case s.ch <- alert:
	default:
	}
}

type Model struct {
	store      storage.Provider
	client     *api.Client
	dispatcher *notifier.Dispatcher
	sched      *scheduler.Scheduler
	sink       alertSink

	state     sessionState
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	loading   bool
	quitting  bool
	width     int
	height    int
	statusErr string

	stats     models.Stats
	habits    []models.Habit
	completed map[string]bool
	selected  int
	muted     bool

	online      bool
	onlineKnown bool

	toasts []toast

	form      *huh.Form
	habitForm *HabitFormModel

	settings models.Settings
}

func NewModel(store storage.Provider, client *api.Client, dispatcher *notifier.Dispatcher) Model {
	settings, err := store.GetSettings()
	if err != nil {
		settings = models.Settings{Timezone: "Local", PollIntervalSec: constants.DefaultPollIntervalSec}
	}

	sink := alertSink{ch: make(chan notifier.Alert, 8)}
	dispatcher.SetSink(sink)

	sched := scheduler.New(store, dispatcher,
		func(ctx context.Context) ([]models.Habit, error) { return client.Habits(ctx) },
		settings.Timezone, settings.PollIntervalSec)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	muted, _ := store.IsMuted()

	return Model{
		store:      store,
		client:     client,
		dispatcher: dispatcher,
		sched:      sched,
		sink:       sink,
		state:      stateStats,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		loading:    true,
		completed:  make(map[string]bool),
		muted:      muted,
		settings:   settings,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadData(),
		m.waitForAlert(),
		m.scheduleTick(),
		m.checkConnectivity(),
		m.connectivityTick(),
	)
}
