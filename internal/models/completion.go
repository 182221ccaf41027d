package models

import "time"

// CompletionEvent is a single recorded instance of a user finishing a habit
// on a given calendar day. Events are immutable once created.
type CompletionEvent struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
	Day         string    `json:"day"` // YYYY-MM-DD, derived in the user's local zone
	XPEarned    int       `json:"xp_earned"`
}

// DeviceEndpoint is the opaque push token registered with the external
// relay. At most one endpoint is active per user.
type DeviceEndpoint struct {
	Token        string    `json:"token"`
	UserID       string    `json:"user_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
