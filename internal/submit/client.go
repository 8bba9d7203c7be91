package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/typedesk/internal/model"
)

// ErrUnauthorized is returned when the API rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultTimeout bounds each API request.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the practice API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps 401 responses to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// HistoryPage is one page of stored results.
type HistoryPage struct {
	Data  []model.Record `json:"data"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// Client talks to the practice API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Submit posts a finalized result.
func (c *Client) Submit(ctx context.Context, r model.Result) error {
	if r.ErrorDetails == nil {
		r.ErrorDetails = []model.WordDiff{}
	}
	return c.do(ctx, http.MethodPost, "/api/practice/submit", nil, r, nil)
}

// Stats fetches the aggregate summary.
func (c *Client) Stats(ctx context.Context) (model.Summary, error) {
	var sum model.Summary
	if err := c.do(ctx, http.MethodGet, "/api/practice/stats", nil, nil, &sum); err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// History fetches one page of results, newest first.
func (c *Client) History(ctx context.Context, page, limit int) (HistoryPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out HistoryPage
	if err := c.do(ctx, http.MethodGet, "/api/practice/history", q, nil, &out); err != nil {
		return HistoryPage{}, err
	}
	return out, nil
}

// Detail fetches one result by text id.
func (c *Client) Detail(ctx context.Context, textID string) (model.Record, error) {
	var rec model.Record
	if err := c.do(ctx, http.MethodGet, "/api/practice/history/"+url.PathEscape(textID), nil, nil, &rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.baseURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err != nil {
			apiErr.Status = resp.StatusCode
			return fmt.Errorf("failed to read error response: %w", errors.Join(apiErr, err))
		}
		if len(data) > 0 {
			// Best-effort decode; the status alone is enough.
			_ = json.Unmarshal(data, apiErr)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
