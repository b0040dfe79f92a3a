package connections

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spshpau/project-service/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the user-connections directory service. It is consulted
// only when adding a collaborator, forwarding the caller's bearer token so
// the directory answers for the caller's own connection set.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ListConnections fetches the caller's confirmed connections.
func (c *Client) ListConnections(ctx context.Context, bearerToken string) ([]domain.UserSummary, error) {
	reqURL := c.baseURL + "/interactions/me/connections/all"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connections request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("connections service returned status %d: %s", resp.StatusCode, body)
	}

	var out []domain.UserSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode connections response: %w", err)
	}
	return out, nil
}
