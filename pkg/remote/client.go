package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APITimeout bounds every backend call.
const APITimeout = 5 * time.Second

// Client implements API over the backend's HTTP interface.
type Client struct {
	base  string
	token string
	hc    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a backend client for the given base URL and bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		hc:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTabForCourse creates a tab attached to the given course.
func (c *Client) CreateTabForCourse(ctx context.Context, courseID string, create TabCreate) (Tab, error) {
	var tab Tab
	path := fmt.Sprintf("/courses/%s/tabs/", courseID)
	if err := c.do(ctx, http.MethodPost, path, create, &tab); err != nil {
		return Tab{}, err
	}
	return tab, nil
}

// UpdateTab replaces the settings of an existing tab.
func (c *Client) UpdateTab(ctx context.Context, tabID string, settings string) (Tab, error) {
	var tab Tab
	body := struct {
		Settings string `json:"settings"`
	}{Settings: settings}
	if err := c.do(ctx, http.MethodPut, "/tabs/"+tabID, body, &tab); err != nil {
		return Tab{}, err
	}
	return tab, nil
}

// GetCourse fetches course metadata.
func (c *Client) GetCourse(ctx context.Context, courseID string) (Course, error) {
	var course Course
	if err := c.do(ctx, http.MethodGet, "/courses/"+courseID, nil, &course); err != nil {
		return Course{}, err
	}
	return course, nil
}

// GetSemester fetches semester metadata including its courses.
func (c *Client) GetSemester(ctx context.Context, semesterID string) (Semester, error) {
	var semester Semester
	if err := c.do(ctx, http.MethodGet, "/semesters/"+semesterID, nil, &semester); err != nil {
		return Semester{}, err
	}
	return semester, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}
