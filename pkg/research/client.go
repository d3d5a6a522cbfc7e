// Package research provides the public Go client for the research engine API.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is the HTTP client for a running research engine instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a research engine client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8086"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// QueryRequest is a question for the engine.
type QueryRequest struct {
	Query             string `json:"query"`
	VisualizationType string `json:"visualizationType,omitempty"`
}

// Chart is one renderable data series.
type Chart struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Stat is a named, display-ready statistic.
type Stat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FilterInfo describes how a term filter changed the data.
type FilterInfo struct {
	Query           string `json:"query"`
	OriginalRecords int    `json:"original_records"`
	FilteredRecords int    `json:"filtered_records"`
	Filtered        bool   `json:"filtered"`
}

// Payload is the structured answer to a query.
type Payload struct {
	Type       string      `json:"type"`
	Title      string      `json:"title"`
	Message    string      `json:"message,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
	Charts     []Chart     `json:"charts,omitempty"`
	Stats      []Stat      `json:"stats,omitempty"`
	FilterInfo *FilterInfo `json:"filter_info,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// RelevanceScore pairs a dataset with its relevance in [0,1].
type RelevanceScore struct {
	Dataset string  `json:"dataset"`
	Score   float64 `json:"score"`
}

// QueryResponse is the engine's answer to a question.
type QueryResponse struct {
	RequestID string           `json:"requestId"`
	Type      string           `json:"type"`
	Payload   Payload          `json:"payload"`
	Term      string           `json:"term,omitempty"`
	Usernames []string         `json:"usernames,omitempty"`
	Relevance []RelevanceScore `json:"relevance,omitempty"`
	Cached    bool             `json:"cached"`
	LatencyMs int64            `json:"latencyMs"`
}

// Query asks the engine a question.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.post(ctx, "/api/v1/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatasetOverview summarizes one dataset.
type DatasetOverview struct {
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Stats   []Stat   `json:"stats,omitempty"`
}

// DataSummary fetches the per-dataset overview.
func (c *Client) DataSummary(ctx context.Context) (map[string]DatasetOverview, error) {
	var out map[string]DatasetOverview
	if err := c.get(ctx, "/api/v1/data/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Creator is one account in the creators listing.
type Creator struct {
	Username       string  `json:"username"`
	Followers      float64 `json:"followers"`
	Perspective    string  `json:"perspective,omitempty"`
	Themes         string  `json:"themes,omitempty"`
	Videos         int     `json:"videos"`
	TotalViews     float64 `json:"totalViews"`
	EngagementRate float64 `json:"engagementRate"`
}

// CreatorsPage is a paginated creators listing.
type CreatorsPage struct {
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	Items    []Creator `json:"items"`
}

// Creators lists accounts sorted by follower count.
func (c *Client) Creators(ctx context.Context, page, pageSize int) (*CreatorsPage, error) {
	var out CreatorsPage
	if err := c.get(ctx, "/api/v1/data/creators", pageParams(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RowsPage is a paginated raw-row listing.
type RowsPage struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Total    int                 `json:"total"`
	Items    []map[string]string `json:"items"`
}

// Videos lists videos sorted by views descending.
func (c *Client) Videos(ctx context.Context, page, pageSize int) (*RowsPage, error) {
	var out RowsPage
	if err := c.get(ctx, "/api/v1/data/videos", pageParams(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WordsFilter narrows the lexicon listing. Sentiment is -1, 0 or 1 when set.
type WordsFilter struct {
	Sentiment *int
	Page      int
	PageSize  int
}

// Words lists the sentiment lexicon.
func (c *Client) Words(ctx context.Context, filter WordsFilter) (*RowsPage, error) {
	params := pageParams(filter.Page, filter.PageSize)
	if filter.Sentiment != nil {
		params.Set("sentiment", strconv.Itoa(*filter.Sentiment))
	}

	var out RowsPage
	if err := c.get(ctx, "/api/v1/data/words", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReloadResponse reports the result of a dataset reload.
type ReloadResponse struct {
	Status string         `json:"status"`
	Rows   map[string]int `json:"rows"`
}

// Reload makes the server re-read its datasets from disk.
func (c *Client) Reload(ctx context.Context) (*ReloadResponse, error) {
	var out ReloadResponse
	if err := c.post(ctx, "/admin/reload", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InvalidateCache drops the server's cached query responses.
func (c *Client) InvalidateCache(ctx context.Context) error {
	return c.post(ctx, "/admin/cache/invalidate", nil, nil)
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health checks service liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func pageParams(page, pageSize int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
