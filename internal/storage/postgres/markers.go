package postgres

import (
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/questhacker/questhacker-cli/internal/models"
)

func (s *Store) AddCompletionEvent(event models.CompletionEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO completion_events (id, habit_id, user_id, day, completed_at, xp_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		event.ID, event.HabitID, event.UserID, event.Day,
		event.CompletedAt.Format(time.RFC3339), event.XPEarned,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("completion already recorded for habit %s on %s", event.HabitID, event.Day)
		}
		return fmt.Errorf("failed to insert completion event: %w", err)
	}
	return nil
}

func (s *Store) IsCompleted(habitID, day string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count(*) FROM completion_events WHERE habit_id = $1 AND day = $2",
		habitID, day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check completion marker: %w", err)
	}
	return count > 0, nil
}

func (s *Store) CompletedHabits(day string) ([]string, error) {
	rows, err := s.db.Query("SELECT habit_id FROM completion_events WHERE day = $1", day)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed habits: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) GetCompletionEvents(startDay, endDay string) ([]models.CompletionEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, user_id, day, completed_at, xp_earned
		FROM completion_events
		WHERE day >= $1 AND day <= $2
		ORDER BY completed_at
	`, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion events: %w", err)
	}
	defer rows.Close()

	var events []models.CompletionEvent
	for rows.Next() {
		var e models.CompletionEvent
		var completedAt string
		if err := rows.Scan(&e.ID, &e.HabitID, &e.UserID, &e.Day, &completedAt, &e.XPEarned); err != nil {
			return nil, err
		}
		e.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) MarkReminded(habitID, day string) error {
	_, err := s.db.Exec(`
		INSERT INTO reminder_markers (habit_id, day, fired_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, day) DO NOTHING
	`, habitID, day, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to mark reminder fired: %w", err)
	}
	return nil
}

func (s *Store) IsReminded(habitID, day string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count(*) FROM reminder_markers WHERE habit_id = $1 AND day = $2",
		habitID, day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder marker: %w", err)
	}
	return count > 0, nil
}

func (s *Store) scanEndpointRow(row *sql.Row) (models.DeviceEndpoint, error) {
	var ep models.DeviceEndpoint
	var registeredAt string
	if err := row.Scan(&ep.Token, &ep.UserID, &registeredAt); err != nil {
		return models.DeviceEndpoint{}, err
	}
	t, err := time.Parse(time.RFC3339, registeredAt)
	if err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("failed to parse registered_at: %w", err)
	}
	ep.RegisteredAt = t
	return ep, nil
}
