package pushlink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/questhacker/questhacker-cli/internal/constants"
)

// RelayClient fetches device tokens from the push relay agent running
// alongside the tray helper.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRelayClient(baseURL string) *RelayClient {
	if baseURL == "" {
		baseURL = constants.DefaultRelayURL
	}
	return &RelayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.RelayTimeout},
	}
}

// FetchToken asks the relay to issue a device token for this machine.
func (r *RelayClient) FetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/token", nil)
	if err != nil {
		return "", err
	}

	res, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay returned %d", res.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode relay response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("relay issued an empty token")
	}
	return body.Token, nil
}
