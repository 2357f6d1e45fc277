package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cms-sync/feature/content"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"
)

// APIError is returned when the CMS answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client is the HTTP wrapper around the CMS REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewClient creates a new CMS client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 300
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.ApiURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		maxRetries: retries,
		backoff:    time.Second,
		logger:     logger,
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticate exchanges the login for a JWT. Without an identifier or
// password it returns an empty credential and no request is made.
func (c *Client) Authenticate(ctx context.Context, identifier, password string) (string, error) {
	if identifier == "" || password == "" {
		return "", nil
	}

	payload, err := json.Marshal(map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/local", "", payload)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}

	var resp struct {
		JWT string `json:"jwt"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse authentication response: %w", err)
	}
	if resp.JWT == "" {
		return "", fmt.Errorf("authentication failed: response has no jwt")
	}
	return resp.JWT, nil
}

// Fetch lists a collection type. The endpoint is the plural of contentType.
func (c *Client) Fetch(ctx context.Context, contentType, credential string, limit int) ([]content.Object, error) {
	q := url.Values{}
	q.Set("_limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, inflection.Plural(contentType), q.Encode())

	return c.fetchRecords(ctx, endpoint, credential)
}

// FetchSingle fetches a single type. An array envelope is unwrapped.
func (c *Client) FetchSingle(ctx context.Context, singleType, credential string) ([]content.Object, error) {
	return c.fetchRecords(ctx, fmt.Sprintf("%s/%s", c.baseURL, singleType), credential)
}

func (c *Client) fetchRecords(ctx context.Context, endpoint, credential string) ([]content.Object, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, credential, nil)
	if err != nil {
		return nil, err
	}

	v, err := content.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	records, err := content.Records(v)
	if err != nil {
		return nil, fmt.Errorf("unexpected response from %s: %w", endpoint, err)
	}

	c.logger.Debug("Fetched records", zap.String("url", endpoint), zap.Int("count", len(records)))
	return records, nil
}

// do performs a request and returns the body.
// Retries automatically on HTTP 5xx or 429 responses and connection errors with exponential back-off.
func (c *Client) do(ctx context.Context, method, endpoint, credential string, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt < c.maxRetries && ctx.Err() == nil {
				wait := c.wait(attempt, nil)
				c.logger.Warn("Request failed, retrying",
					zap.String("url", endpoint),
					zap.Int("attempt", attempt),
					zap.Duration("wait", wait),
					zap.Error(err),
				)
				if err := sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		// Check for retryable errors
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: string(body)}
			if attempt < c.maxRetries {
				wait := c.wait(attempt, resp)
				c.logger.Warn("Request failed, retrying",
					zap.String("url", endpoint),
					zap.Int("attempt", attempt),
					zap.Int("status", resp.StatusCode),
					zap.Duration("wait", wait),
				)
				if err := sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		// Non-retryable error
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *Client) wait(attempt int, resp *http.Response) time.Duration {
	wait := time.Duration(1<<(attempt-1)) * c.backoff
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
