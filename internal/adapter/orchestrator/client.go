// Package orchestrator is the HTTP client for the upstream orchestration
// platform, which supplies the agent roster and the event feed the
// timeline renders.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether an upstream URL was configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type agentsResponse struct {
	Agents []domain.Agent `json:"agents"`
}

// FetchAgents pulls the current roster.
func (c *Client) FetchAgents(ctx context.Context) ([]domain.Agent, error) {
	var resp agentsResponse
	if err := c.getJSON(ctx, "/v1/agents", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch agents: %w", err)
	}
	return resp.Agents, nil
}

type eventsResponse struct {
	Events []domain.Event `json:"events"`
}

// FetchEvents pulls the newest events, reverse-chronological.
func (c *Client) FetchEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp eventsResponse
	if err := c.getJSON(ctx, "/v1/events", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return resp.Events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
