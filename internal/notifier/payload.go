package notifier

import (
	"encoding/json"
	"fmt"
)

// ParsePushPayload extracts an alert from an inbound push payload. Both flat
// `{"title": ..., "body": ...}` and nested `{"notification": {...}}` shapes
// are accepted; missing fields come back as empty strings.
func ParsePushPayload(raw []byte) (Alert, error) {
	var payload struct {
		Title        string `json:"title"`
		Body         string `json:"body"`
		HabitID      string `json:"habit_id"`
		Notification *struct {
			Title   string `json:"title"`
			Body    string `json:"body"`
			HabitID string `json:"habit_id"`
		} `json:"notification"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return Alert{}, fmt.Errorf("invalid push payload: %w", err)
	}

	if payload.Notification != nil {
		return Alert{
			Title:   payload.Notification.Title,
			Body:    payload.Notification.Body,
			HabitID: payload.Notification.HabitID,
		}, nil
	}

	return Alert{
		Title:   payload.Title,
		Body:    payload.Body,
		HabitID: payload.HabitID,
	}, nil
}
