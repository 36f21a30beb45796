// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mergington-activities/internal/registry"
)

// Client talks to a running activities API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// APIError is a non-2xx response decoded from the service's error body.
type APIError struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("activities api: %d %s: %s", e.Status, e.Code, e.Detail)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListActivities fetches the full catalog snapshot.
func (c *Client) ListActivities(ctx context.Context) (map[string]registry.Activity, error) {
	var out map[string]registry.Activity
	if err := c.do(ctx, http.MethodGet, "/activities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SignUp registers email for activity and returns the confirmation message.
func (c *Client) SignUp(ctx context.Context, activity, email string) (string, error) {
	return c.roster(ctx, activity, "signup", email)
}

// Unregister removes email from activity and returns the confirmation message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.roster(ctx, activity, "unregister", email)
}

func (c *Client) roster(ctx context.Context, activity, action, email string) (string, error) {
	path := fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(activity), action, url.QueryEscape(email))
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, path, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	return json.Unmarshal(body, out)
}
