package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
)

func staticToken(token string) TokenFunc {
	return func() (string, error) { return token, nil }
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.Stats{XP: 120, Level: 2})
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("secret-token"))
	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if stats.XP != 120 || stats.Level != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("expired"))
	_, err := client.Stats(context.Background())
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCompleteHabit(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantPath string
		xpEarned int
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"message":"Completed","xp_earned":20,"new_xp":140,"new_level":2}`,
			wantPath: "/habits/habit-1/complete",
			xpEarned: 20,
		},
		{
			name:    "duplicate",
			status:  http.StatusBadRequest,
			body:    `{"detail":"Already completed"}`,
			wantErr: apperrors.ErrAlreadyCompletedToday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, staticToken("tok"))
			result, err := client.CompleteHabit(context.Background(), "habit-1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantPath != "" && gotPath != tt.wantPath {
				t.Errorf("expected path %s, got %s", tt.wantPath, gotPath)
			}
			if result.XPEarned == nil {
				t.Fatal("expected xp_earned to be present")
			}
			if *result.XPEarned != tt.xpEarned {
				t.Errorf("expected xp_earned %d, got %d", tt.xpEarned, *result.XPEarned)
			}
		})
	}
}

func TestBuyShieldInsufficientXP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Need 200 XP"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("tok"))
	_, err := client.BuyShield(context.Background())
	if !errors.Is(err, apperrors.ErrInsufficientXP) {
		t.Errorf("expected ErrInsufficientXP, got %v", err)
	}
}

func TestLoginSkipsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login should not send Authorization header, got %q", auth)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "user@example.com" {
			t.Errorf("unexpected email: %q", body["email"])
		}
		w.Write([]byte(`{"token":"issued-token","user":{"id":"u1","username":"user"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("stale"))
	result, err := client.Login(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token != "issued-token" {
		t.Errorf("expected issued-token, got %q", result.Token)
	}
}

func TestPushTokenRegistration(t *testing.T) {
	var gotMethod, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if r.Method == http.MethodPost {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			gotToken = body["token"]
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, staticToken("tok"))

	if err := client.RegisterPushToken(context.Background(), "device-abc"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if gotMethod != http.MethodPost || gotToken != "device-abc" {
		t.Errorf("expected POST with token device-abc, got %s %q", gotMethod, gotToken)
	}

	if err := client.UnregisterPushToken(context.Background()); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", gotMethod)
	}
}

func TestReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	client := New(srv.URL, nil)
	if !client.Reachable(context.Background()) {
		t.Error("expected reachable while server answers")
	}

	srv.Close()
	if client.Reachable(context.Background()) {
		t.Error("expected unreachable after server shutdown")
	}
}
