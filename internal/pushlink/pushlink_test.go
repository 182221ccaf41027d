package pushlink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

type fakeEndpointStore struct {
	endpoint    *models.DeviceEndpoint
	settings    models.Settings
	saveErr     error
	clearCalled bool
}

func (f *fakeEndpointStore) GetEndpoint() (models.DeviceEndpoint, error) {
	if f.endpoint == nil {
		return models.DeviceEndpoint{}, storage.ErrNoEndpoint
	}
	return *f.endpoint, nil
}

func (f *fakeEndpointStore) SaveEndpoint(ep models.DeviceEndpoint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.endpoint = &ep
	return nil
}

func (f *fakeEndpointStore) ClearEndpoint() error {
	f.clearCalled = true
	f.endpoint = nil
	return nil
}

func (f *fakeEndpointStore) GetSettings() (models.Settings, error) {
	return f.settings, nil
}

func (f *fakeEndpointStore) SaveSettings(s models.Settings) error {
	f.settings = s
	return nil
}

type fakeBackend struct {
	registerErr     error
	unregisterErr   error
	registerCalls   int
	unregisterCalls int
	lastToken       string
}

func (f *fakeBackend) RegisterPushToken(ctx context.Context, token string) error {
	f.registerCalls++
	f.lastToken = token
	return f.registerErr
}

func (f *fakeBackend) UnregisterPushToken(ctx context.Context) error {
	f.unregisterCalls++
	return f.unregisterErr
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) FetchToken(ctx context.Context) (string, error) {
	return f.token, f.err
}

func granted() bool { return true }
func denied() bool  { return false }

func TestEnable(t *testing.T) {
	tests := []struct {
		name       string
		permission PermissionCheck
		tokens     *fakeTokens
		backend    *fakeBackend
		wantErr    error
		wantLinked bool
	}{
		{
			name:       "success",
			permission: granted,
			tokens:     &fakeTokens{token: "device-abc"},
			backend:    &fakeBackend{},
			wantLinked: true,
		},
		{
			name:       "permission denied",
			permission: denied,
			tokens:     &fakeTokens{token: "device-abc"},
			backend:    &fakeBackend{},
			wantErr:    apperrors.ErrPermissionDenied,
		},
		{
			name:       "token retrieval fails",
			permission: granted,
			tokens:     &fakeTokens{err: errors.New("relay down")},
			backend:    &fakeBackend{},
			wantErr:    apperrors.ErrTokenRetrieval,
		},
		{
			name:       "backend rejects registration",
			permission: granted,
			tokens:     &fakeTokens{token: "device-abc"},
			backend:    &fakeBackend{registerErr: errors.New("503")},
			wantErr:    nil, // wrapped backend error, checked separately
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEndpointStore{}
			m := New(store, tt.backend, tt.tokens, tt.permission)

			_, err := m.Enable(context.Background())

			if tt.wantLinked {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				state, _ := m.State()
				if state != constants.PushLinked {
					t.Errorf("expected linked state, got %s", state)
				}
				if !store.settings.PlatformAlerts {
					t.Error("expected platform alerts granted")
				}
				if tt.backend.lastToken != "device-abc" {
					t.Errorf("wrong token registered: %q", tt.backend.lastToken)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			state, _ := m.State()
			if state != constants.PushUnlinked {
				t.Errorf("failed enable must stay unlinked, got %s", state)
			}
		})
	}
}

func TestEnableWhileLinkedReplacesToken(t *testing.T) {
	store := &fakeEndpointStore{
		endpoint: &models.DeviceEndpoint{Token: "old-token", RegisteredAt: time.Now().Add(-time.Hour)},
	}
	backend := &fakeBackend{}
	m := New(store, backend, &fakeTokens{token: "new-token"}, granted)

	endpoint, err := m.Enable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if endpoint.Token != "new-token" {
		t.Errorf("expected new token, got %q", endpoint.Token)
	}
	if backend.registerCalls != 1 {
		t.Errorf("expected exactly one registration call, got %d", backend.registerCalls)
	}
	if store.endpoint.Token != "new-token" {
		t.Errorf("cache not replaced: %q", store.endpoint.Token)
	}
}

func TestDisable(t *testing.T) {
	store := &fakeEndpointStore{
		endpoint: &models.DeviceEndpoint{Token: "device-abc", RegisteredAt: time.Now()},
		settings: models.Settings{PlatformAlerts: true},
	}
	backend := &fakeBackend{}
	m := New(store, backend, &fakeTokens{}, granted)

	if err := m.Disable(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.unregisterCalls != 1 {
		t.Errorf("expected exactly one unregister call, got %d", backend.unregisterCalls)
	}
	if !store.clearCalled {
		t.Error("endpoint cache not cleared")
	}
	if store.settings.PlatformAlerts {
		t.Error("platform alerts still granted after disable")
	}

	state, _ := m.State()
	if state != constants.PushUnlinked {
		t.Errorf("expected unlinked, got %s", state)
	}
}

func TestDisableWhileUnlinked(t *testing.T) {
	store := &fakeEndpointStore{}
	backend := &fakeBackend{}
	m := New(store, backend, &fakeTokens{}, granted)

	err := m.Disable(context.Background())
	if !errors.Is(err, apperrors.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
	if backend.unregisterCalls != 0 {
		t.Errorf("unlinked disable must not call the backend")
	}
}

func TestRelayClientFetchToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"token":"relay-token"}`))
	}))
	defer srv.Close()

	relay := NewRelayClient(srv.URL)
	token, err := relay.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "relay-token" {
		t.Errorf("expected relay-token, got %q", token)
	}
}

func TestRelayClientEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	relay := NewRelayClient(srv.URL)
	if _, err := relay.FetchToken(context.Background()); err == nil {
		t.Fatal("expected error for empty token")
	}
}
