package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client is a thin HTTP client for platterd's control surface
// (spec.md §6 "Control-surface HTTP contract").
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: 15 * time.Second}}
}

// apiError carries a failure response's {detail: ...} body.
type apiError struct {
	status int
	detail string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (http %d)", e.detail, e.status)
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(raw, &errBody)
		return &apiError{status: resp.StatusCode, detail: errBody.Detail}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type jobActionResponse struct {
	Success bool   `json:"success"`
	JobID   int64  `json:"job_id"`
	Status  string `json:"status"`
}

func (c *client) jobAction(ctx context.Context, jobID int64, action string, body any) (jobActionResponse, error) {
	var resp jobActionResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/jobs/%d/%s", jobID, action), body, &resp)
	return resp, err
}

type oversightIssue struct {
	Kind   string  `json:"Kind"`
	Detail string  `json:"Detail"`
	JobIDs []int64 `json:"JobIDs"`
}

func (c *client) oversightCheck(ctx context.Context) ([]oversightIssue, error) {
	var resp struct {
		Issues []oversightIssue `json:"issues"`
	}
	err := c.do(ctx, http.MethodGet, "/api/oversight/check", nil, &resp)
	return resp.Issues, err
}

func (c *client) oversightFixEncoding(ctx context.Context) (int, error) {
	var resp struct {
		Repaired int `json:"repaired"`
	}
	err := c.do(ctx, http.MethodPost, "/api/oversight/fix_encoding", nil, &resp)
	return resp.Repaired, err
}

func (c *client) activeMode(ctx context.Context) (bool, error) {
	var resp struct {
		Active bool `json:"active"`
	}
	err := c.do(ctx, http.MethodGet, "/api/active_mode", nil, &resp)
	return resp.Active, err
}

func (c *client) setActiveMode(ctx context.Context, on bool) (bool, error) {
	var resp struct {
		Active bool `json:"active"`
	}
	err := c.do(ctx, http.MethodPost, "/api/active_mode", map[string]bool{"active": on}, &resp)
	return resp.Active, err
}

func (c *client) toggleActiveMode(ctx context.Context) (bool, error) {
	var resp struct {
		Active bool `json:"active"`
	}
	err := c.do(ctx, http.MethodPost, "/api/active_mode/toggle", nil, &resp)
	return resp.Active, err
}

type addWantedRequest struct {
	Title       string `json:"title"`
	Year        *int   `json:"year,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	CatalogID   *int64 `json:"catalog_id,omitempty"`
	PosterRef   string `json:"poster_ref,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (c *client) addWanted(ctx context.Context, req addWantedRequest) (int64, error) {
	var resp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/wanted", req, &resp)
	return resp.ID, err
}

func (c *client) removeWanted(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wanted/%d", id), nil, nil)
}

// jobSummary mirrors queue.Job's JSON shape for listing purposes.
type jobSummary struct {
	ID              int64   `json:"ID"`
	Drive           string  `json:"Drive"`
	Label           string  `json:"Label"`
	Status          string  `json:"Status"`
	IdentifiedTitle string  `json:"IdentifiedTitle"`
	IdentifiedYear  *int    `json:"IdentifiedYear"`
	Confidence      *float64 `json:"Confidence"`
	UpdatedAt       time.Time `json:"UpdatedAt"`
}

func (c *client) listJobs(ctx context.Context, limit int, all bool) ([]jobSummary, error) {
	path := fmt.Sprintf("/api/jobs?limit=%d", limit)
	if all {
		path += "&all=1"
	}
	var resp struct {
		Jobs []jobSummary `json:"jobs"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp.Jobs, err
}
