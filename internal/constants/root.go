package constants

import "time"

// ScheduleType represents how a habit recurs across the week
type ScheduleType string

// PushLinkState represents the device's registration state with the push relay
type PushLinkState string

const (
	AppName            = "questhacker"
	DefaultKeyringUser = "auth-token"
	KeyringConnUser    = "database-connection"
	DefaultConfigPath  = "~/.config/questhacker/questhacker.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backend defaults
	DefaultBackendURL = "http://127.0.0.1:8000/api"
	BackendTimeout    = 10 * time.Second
	DefaultRelayURL   = "http://127.0.0.1:8787"
	RelayTimeout      = 10 * time.Second

	// Progress constants (mirror the backend's XP model)
	XPPerLevel       = 100
	BaseCompletionXP = 20
	ShieldCost       = 200

	// Scheduler constants
	DefaultPollIntervalSec = 15
	MinPollIntervalSec     = 5

	// Notify constants
	NotifierLockfileName   = "questhacker-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.questhacker.cli"
	TrayExecutablePrefix   = "questhacker-tray"

	// Alert copy, shared with the alerts the backend pushes through the relay
	ReminderTitle = "QUEST ALERT"
	LevelUpTitle  = "LEVEL UP"

	// Schedule types
	ScheduleDaily    ScheduleType = "daily"
	ScheduleWeekdays ScheduleType = "weekdays"

	// Push link states
	PushUnlinked PushLinkState = "unlinked"
	PushLinked   PushLinkState = "linked"
)

// BadgeTier pairs a badge name with the XP threshold that unlocks it.
type BadgeTier struct {
	Name      string
	Threshold int
}

// BadgeTiers lists the badge thresholds in ascending order. A badge unlocks
// when xp crosses its threshold and is never removed afterwards.
var BadgeTiers = []BadgeTier{
	{Name: "Beginner", Threshold: 0},
	{Name: "Novice", Threshold: 200},
	{Name: "Intermediate", Threshold: 1000},
	{Name: "Expert", Threshold: 2500},
	{Name: "Master", Threshold: 5000},
}
