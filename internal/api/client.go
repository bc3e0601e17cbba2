package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"musicsort/internal/engine"
	"musicsort/internal/model"
)

// APIError surfaces non-2xx responses from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// Client calls a musicsort server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient uses http.DefaultClient when httpClient is nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Grid fetches the server's reference grid.
func (c *Client) Grid(ctx context.Context) (GridResponse, error) {
	var out GridResponse
	err := c.do(ctx, http.MethodGet, "/v1/grid", nil, http.StatusOK, &out)
	return out, err
}

// Sort runs alg on the server. A nil seq sorts the server's grid.
func (c *Client) Sort(ctx context.Context, alg engine.Algorithm, seq model.Sequence) (model.StepLog, string, error) {
	path := "/v1/sorts/" + url.PathEscape(alg.String())
	if seq != nil {
		path += "?" + url.Values{"notes": {strings.Join(seq.Names(), ",")}}.Encode()
	}
	var out SortRun
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, "", err
	}
	return FromWire(out.Steps), out.RunID, nil
}

// Log sends a message to the server's diagnostic log.
func (c *Client) Log(ctx context.Context, message string) error {
	body, err := json.Marshal(LogMessage{Message: message})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/v1/log", body, http.StatusNoContent, nil)
}

// Health returns nil when the server answers 200 on /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func newAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var e ErrorResponse
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &e) == nil && e.Message != "" {
		msg = e.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
