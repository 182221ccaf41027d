package storage

import (
	"errors"

	"github.com/questhacker/questhacker-cli/internal/models"
)

// ErrNoEndpoint is returned when no device endpoint is cached locally.
var ErrNoEndpoint = errors.New("no device endpoint registered")

// Provider is the locally persisted state this client owns: per-(habit, day)
// completion and reminder markers, the mute flag and other client settings,
// and the cached push device endpoint. Habit and progress data stay on the
// backend. Markers assume a single writer per user; two application
// instances sharing a store are not serialized.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Mute flag
	IsMuted() (bool, error)
	SetMuted(bool) error

	// Completion events and markers. Events are immutable once added;
	// AddCompletionEvent fails if one already exists for (habit_id, day).
	AddCompletionEvent(models.CompletionEvent) error
	IsCompleted(habitID, day string) (bool, error)
	CompletedHabits(day string) ([]string, error)
	GetCompletionEvents(startDay, endDay string) ([]models.CompletionEvent, error)

	// Reminder-fired markers
	MarkReminded(habitID, day string) error
	IsReminded(habitID, day string) (bool, error)

	// Device endpoint cache. Save replaces any existing endpoint.
	GetEndpoint() (models.DeviceEndpoint, error)
	SaveEndpoint(models.DeviceEndpoint) error
	ClearEndpoint() error

	// Utils
	GetConfigPath() string
}
