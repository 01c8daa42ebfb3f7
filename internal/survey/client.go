package survey

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studyfunnel_backend/internal/config"
)

// maxPages bounds pagination in case the provider keeps returning a next link
const maxPages = 100

// Client talks to the survey provider's v3 REST API
type Client struct {
	baseURL  string
	token    string
	surveyID string
	pageSize int
	client   *http.Client
}

func NewClient(cfg config.SurveyConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		surveyID: cfg.SurveyID,
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchDetails loads the survey's question catalog
func (c *Client) FetchDetails(ctx context.Context) (*Details, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	var details Details
	endpoint := fmt.Sprintf("%s/surveys/%s/details", c.baseURL, url.PathEscape(c.surveyID))
	if err := c.getJSON(ctx, endpoint, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch survey details: %w", err)
	}
	return &details, nil
}

// FetchCompletedResponses pulls every completed response, following next links
func (c *Client) FetchCompletedResponses(ctx context.Context) ([]Response, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("status", "completed")
	query.Set("per_page", strconv.Itoa(c.pageSize))
	next := fmt.Sprintf("%s/surveys/%s/responses/bulk?%s", c.baseURL, url.PathEscape(c.surveyID), query.Encode())

	var all []Response
	for page := 0; next != "" && page < maxPages; page++ {
		var body bulkPage
		if err := c.getJSON(ctx, next, &body); err != nil {
			return nil, fmt.Errorf("failed to fetch survey responses (page %d): %w", page+1, err)
		}
		all = append(all, body.Data...)
		next = body.Links.Next
	}
	return all, nil
}

func (c *Client) checkConfigured() error {
	if c.token == "" || c.surveyID == "" {
		return fmt.Errorf("survey token or survey id not configured")
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
