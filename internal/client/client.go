// Package client talks to a running planloom server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/joshharrison/planloom/internal/planner"
	"github.com/joshharrison/planloom/internal/taskfile"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// Options tune a Client. Zero values fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	// InitialInterval is the first retry delay.
	InitialInterval time.Duration
}

// Client posts task sets to the scheduling API.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
	interval   time.Duration
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	interval := opts.InitialInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       hc,
		maxRetries: uint64(retries),
		interval:   interval,
	}, nil
}

// Schedule returns the recommended order for req. projectID may be empty.
func (c *Client) Schedule(ctx context.Context, projectID string, req *taskfile.Request) ([]string, error) {
	var resp taskfile.Response
	if err := c.post(ctx, c.path(projectID, "schedule"), req, &resp); err != nil {
		return nil, err
	}
	return resp.RecommendedOrder, nil
}

// Plan returns the full plan for req. projectID may be empty.
func (c *Client) Plan(ctx context.Context, projectID string, req *taskfile.Request) (*planner.Plan, error) {
	var plan planner.Plan
	if err := c.post(ctx, c.path(projectID, "plan"), req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) path(projectID, action string) string {
	if projectID == "" {
		return "/api/v1/" + action
	}
	return "/api/v1/projects/" + url.PathEscape(projectID) + "/" + action
}

// post sends body as JSON, retrying transport errors and 5xx responses.
// 4xx responses are returned as *APIError without retrying.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("POST %s: %w", path, err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 300 {
			apiErr := decodeAPIError(resp.StatusCode, payload)
			if resp.StatusCode >= 500 {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if err := json.Unmarshal(payload, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

func decodeAPIError(status int, payload []byte) *APIError {
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Error == "" {
		return &APIError{Status: status, Message: strings.TrimSpace(string(payload))}
	}
	return &APIError{Status: status, Kind: body.Kind, Message: body.Error}
}
