package models

// Settings represents application-wide client settings
type Settings struct {
	Timezone        string `json:"timezone"`          // IANA timezone name, or "Local" for the system timezone
	PollIntervalSec int    `json:"poll_interval_sec"` // scheduler poll cadence while the dashboard is open
	PlatformAlerts  bool   `json:"platform_alerts"`   // whether platform-level alerts were granted via push opt-in
	Muted           bool   `json:"muted"`             // global mute flag; suppresses every alert channel
}
