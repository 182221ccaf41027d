package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/questhacker/questhacker-cli/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "timezone":
			settings.Timezone = value
		case "poll_interval_sec":
			if _, err := fmt.Sscanf(value, "%d", &settings.PollIntervalSec); err != nil {
				return models.Settings{}, fmt.Errorf("parsing poll_interval_sec: %w", err)
			}
		case "platform_alerts":
			settings.PlatformAlerts = value == "true"
		case "muted":
			settings.Muted = value == "true"
		}
		count++
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("timezone", settings.Timezone); err != nil {
		return err
	}
	if _, err := stmt.Exec("poll_interval_sec", fmt.Sprintf("%d", settings.PollIntervalSec)); err != nil {
		return err
	}
	if _, err := stmt.Exec("platform_alerts", boolValue(settings.PlatformAlerts)); err != nil {
		return err
	}
	if _, err := stmt.Exec("muted", boolValue(settings.Muted)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) IsMuted() (bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", "muted").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing key means the flag was never set
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read mute flag: %w", err)
	}
	return value == "true", nil
}

func (s *Store) SetMuted(muted bool) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, "muted", boolValue(muted))
	if err != nil {
		return fmt.Errorf("failed to set mute flag: %w", err)
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
