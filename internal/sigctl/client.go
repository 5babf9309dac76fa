package sigctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// NewClient returns a client for the core API. timeout bounds every
// request, including result requests that wait for a run to complete.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	r := &Response{
		StatusCode: resp.StatusCode,
		Body:       json.RawMessage(respBody),
	}

	if resp.StatusCode >= 400 {
		return r, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiError(respBody))
	}

	return r, nil
}

// apiError extracts the "error" field the API puts in error bodies, falling
// back to the raw body.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}

// SignalWithStartResult is the API's answer to a signal-with-start call.
type SignalWithStartResult struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
	Started    bool   `json:"started"`
}

func (c *Client) SignalWithStart(ctx context.Context, call Call) (*SignalWithStartResult, error) {
	resp, err := c.Post(ctx, "/api/v1/workflows/"+url.PathEscape(call.WorkflowID)+"/signal-with-start", call.body())
	if err != nil {
		return nil, err
	}
	var out SignalWithStartResult
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("parse signal-with-start response: %w", err)
	}
	return &out, nil
}

// Result waits for the run to complete and returns its raw JSON result.
func (c *Client) Result(ctx context.Context, workflowID, runID, workflowType string) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/v1/workflows/%s/runs/%s/result?workflow_type=%s",
		url.PathEscape(workflowID), url.PathEscape(runID), url.QueryEscape(workflowType))
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("result of %s: %w", workflowID, err)
	}
	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("parse result response: %w", err)
	}
	return out.Result, nil
}
