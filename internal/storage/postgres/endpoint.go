package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

func (s *Store) GetEndpoint() (models.DeviceEndpoint, error) {
	row := s.db.QueryRow("SELECT token, user_id, registered_at FROM device_endpoint WHERE id = 1")
	ep, err := s.scanEndpointRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeviceEndpoint{}, storage.ErrNoEndpoint
	}
	if err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("failed to get device endpoint: %w", err)
	}
	return ep, nil
}

func (s *Store) SaveEndpoint(ep models.DeviceEndpoint) error {
	_, err := s.db.Exec(`
		INSERT INTO device_endpoint (id, token, user_id, registered_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			registered_at = excluded.registered_at
	`, ep.Token, ep.UserID, ep.RegisteredAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save device endpoint: %w", err)
	}
	return nil
}

func (s *Store) ClearEndpoint() error {
	if _, err := s.db.Exec("DELETE FROM device_endpoint WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear device endpoint: %w", err)
	}
	return nil
}
