// Package pushlink manages the device's registration with the push relay.
// The link is a two-state machine (unlinked/linked) persisted as the cached
// device endpoint; every transition is a single attempt with no retries.
package pushlink

import (
	"context"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

// Backend is the slice of the API client the manager needs.
type Backend interface {
	RegisterPushToken(ctx context.Context, token string) error
	UnregisterPushToken(ctx context.Context) error
}

// EndpointStore persists the cached device endpoint and the platform alert
// grant.
type EndpointStore interface {
	GetEndpoint() (models.DeviceEndpoint, error)
	SaveEndpoint(models.DeviceEndpoint) error
	ClearEndpoint() error
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
}

// TokenSource retrieves a device token from the push relay.
type TokenSource interface {
	FetchToken(ctx context.Context) (string, error)
}

// PermissionCheck probes whether platform notifications can be shown at all.
type PermissionCheck func() bool

type Manager struct {
	store      EndpointStore
	backend    Backend
	tokens     TokenSource
	permission PermissionCheck
}

func New(store EndpointStore, backend Backend, tokens TokenSource, permission PermissionCheck) *Manager {
	return &Manager{
		store:      store,
		backend:    backend,
		tokens:     tokens,
		permission: permission,
	}
}

// State reports the current link state from the cached endpoint.
func (m *Manager) State() (constants.PushLinkState, error) {
	_, err := m.store.GetEndpoint()
	if err == storage.ErrNoEndpoint {
		return constants.PushUnlinked, nil
	}
	if err != nil {
		return constants.PushUnlinked, err
	}
	return constants.PushLinked, nil
}

// Enable walks the full opt-in chain: permission, token retrieval, backend
// registration, then the local cache. Any failure leaves the state unlinked
// (or, when re-enabling, the previous link untouched). Enabling while linked
// replaces the registration with a fresh token.
func (m *Manager) Enable(ctx context.Context) (models.DeviceEndpoint, error) {
	if m.permission != nil && !m.permission() {
		return models.DeviceEndpoint{}, apperrors.ErrPermissionDenied
	}

	token, err := m.tokens.FetchToken(ctx)
	if err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("%w: %v", apperrors.ErrTokenRetrieval, err)
	}
	if token == "" {
		return models.DeviceEndpoint{}, apperrors.ErrTokenRetrieval
	}

	if err := m.backend.RegisterPushToken(ctx, token); err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("failed to register push token: %w", err)
	}

	endpoint := models.DeviceEndpoint{
		Token:        token,
		RegisteredAt: time.Now(),
	}
	if err := m.store.SaveEndpoint(endpoint); err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("failed to cache device endpoint: %w", err)
	}

	if err := m.setPlatformAlerts(true); err != nil {
		return models.DeviceEndpoint{}, err
	}

	return endpoint, nil
}

// Disable unregisters the device. From the unlinked state it reports
// ErrNotLinked without touching anything.
func (m *Manager) Disable(ctx context.Context) error {
	state, err := m.State()
	if err != nil {
		return err
	}
	if state == constants.PushUnlinked {
		return apperrors.ErrNotLinked
	}

	if err := m.backend.UnregisterPushToken(ctx); err != nil {
		return fmt.Errorf("failed to unregister push token: %w", err)
	}

	if err := m.store.ClearEndpoint(); err != nil {
		return fmt.Errorf("failed to clear device endpoint: %w", err)
	}

	return m.setPlatformAlerts(false)
}

func (m *Manager) setPlatformAlerts(granted bool) error {
	settings, err := m.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.PlatformAlerts = granted
	if err := m.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
