package platform

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

	"orgbridge/internal/cache"
)

// APIError is a non-2xx response from the org platform.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform API %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("platform API %d: %s", e.StatusCode, e.Message)
}

// Client talks to the org platform's JSON API. It is shared by every
// toolset through the tool context.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *cache.Store
	contextTTL time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithCache(store *cache.Store, contextTTL time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.contextTTL = contextTTL
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrgContext fetches the org descriptor (id, name, user, limits). Results
// are cached; callers exposing the context externally must sanitize it.
func (c *Client) OrgContext(ctx context.Context) (map[string]any, error) {
	fetch := func() (any, error) {
		var out map[string]any
		if err := c.do(ctx, http.MethodGet, "/api/org", nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if c.cache == nil {
		out, err := fetch()
		if err != nil {
			return nil, err
		}
		return out.(map[string]any), nil
	}
	out, err := c.cache.GetOrCompute("platform.org_context", c.contextTTL, fetch)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func (c *Client) WhoAmI(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/whoami", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Query runs a platform query and returns matching records.
func (c *Client) Query(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	body := map[string]any{"query": query}
	if limit > 0 {
		body["limit"] = limit
	}
	var out struct {
		Records []map[string]any `json:"records"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/query", body, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (c *Client) GetRecord(ctx context.Context, kind, id string) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/api/records/%s/%s", url.PathEscape(kind), url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecord(ctx context.Context, kind string, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/api/records/%s", url.PathEscape(kind))
	if err := c.do(ctx, http.MethodPost, path, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("platform URL not configured")
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		if payload.Error.Code != "" {
			apiErr.Code = payload.Error.Code
		}
		if payload.Error.Message != "" {
			apiErr.Message = payload.Error.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
