// Package api implements the HTTP client for the habit backend. The backend
// owns habit definitions and the authoritative progress ledger; this client
// sends bearer-authenticated JSON requests and maps well-known rejections to
// sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
)

// TokenFunc supplies the bearer token for authenticated requests.
type TokenFunc func() (string, error)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokenFunc  TokenFunc
}

// APIError is a non-2xx backend response. Detail carries the backend's
// human-readable message when one was supplied.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// New builds a client against baseURL. tokenFunc may be nil for
// unauthenticated calls (login).
func New(baseURL string, tokenFunc TokenFunc) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.BackendTimeout},
		tokenFunc:  tokenFunc,
	}
}

// SetTokenFunc replaces the token source, e.g. after login.
func (c *Client) SetTokenFunc(fn TokenFunc) {
	c.tokenFunc = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokenFunc != nil {
		token, err := c.tokenFunc()
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrNotAuthenticated, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return apperrors.ErrNotAuthenticated
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Detail: readDetail(res.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// readDetail extracts the backend's error message from a failure body. The
// backend wraps messages as {"detail": "..."}; anything else is passed
// through raw.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var wrapped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Detail != "" {
		return wrapped.Detail
	}
	return strings.TrimSpace(string(data))
}

// LoginResult is the backend's response to a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}

	// Login never sends a bearer token
	saved := c.tokenFunc
	c.tokenFunc = nil
	err := c.do(ctx, http.MethodPost, "/auth/login", body, &result)
	c.tokenFunc = saved

	if err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" {
		return LoginResult{}, fmt.Errorf("login response missing token")
	}
	return result, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

func (c *Client) Habits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// CompletionsToday returns the completion events recorded by the backend for
// the current day.
func (c *Client) CompletionsToday(ctx context.Context) ([]models.CompletionEvent, error) {
	var events []models.CompletionEvent
	if err := c.do(ctx, http.MethodGet, "/habits/completions/today", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CompleteResult is the backend's acknowledgment of a recorded completion.
// XPEarned is a pointer so a response that omits the field can be told apart
// from one that reports zero XP. NewXP and NewLevel may be zero on older
// backends that only report the earned amount.
type CompleteResult struct {
	Message  string `json:"message"`
	XPEarned *int   `json:"xp_earned"`
	NewXP    int    `json:"new_xp"`
	NewLevel int    `json:"new_level"`
}

func (c *Client) CompleteHabit(ctx context.Context, habitID string) (CompleteResult, error) {
	var result CompleteResult
	err := c.do(ctx, http.MethodPost, "/habits/"+habitID+"/complete", nil, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest &&
			strings.Contains(strings.ToLower(apiErr.Detail), "already completed") {
			return CompleteResult{}, apperrors.ErrAlreadyCompletedToday
		}
		return CompleteResult{}, err
	}
	return result, nil
}

func (c *Client) CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	var created models.Habit
	if err := c.do(ctx, http.MethodPost, "/habits", habit, &created); err != nil {
		return models.Habit{}, err
	}
	return created, nil
}

// ShieldResult is the backend's response to a shield purchase.
type ShieldResult struct {
	Message string `json:"message"`
	NewXP   int    `json:"new_xp"`
	Shields int    `json:"shields"`
}

func (c *Client) BuyShield(ctx context.Context) (ShieldResult, error) {
	var result ShieldResult
	err := c.do(ctx, http.MethodPost, "/shop/buy-shield", nil, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return ShieldResult{}, apperrors.ErrInsufficientXP
		}
		return ShieldResult{}, err
	}
	return result, nil
}

// RegisterPushToken registers the device token with the backend so the push
// relay can target this device. Replaces any previously registered token.
func (c *Client) RegisterPushToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.do(ctx, http.MethodPost, "/auth/push-token", body, nil)
}

// UnregisterPushToken removes the device token registration.
func (c *Client) UnregisterPushToken(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/push-token", nil, nil)
}

// Reachable reports whether the backend answers at all. Used by the
// connectivity watcher; any HTTP response counts, including auth failures.
func (c *Client) Reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", nil)
	if err != nil {
		return false
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	res.Body.Close()
	return true
}
