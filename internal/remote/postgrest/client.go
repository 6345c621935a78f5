// Package postgrest reaches the hosted data service through its
// PostgREST (Supabase REST) interface.
package postgrest

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

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

const (
	backendName = "postgrest"

	acceptObject = "application/vnd.pgrst.object+json"
)

// Config holds client configuration.
type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client

	// RPS and Burst bound outbound requests. RPS <= 0 disables the limit.
	RPS   float64
	Burst int

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Client is a remote.Service over PostgREST.
type Client struct {
	restURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
	metrics    *metrics.Metrics
}

var _ remote.Service = (*Client)(nil)

// New creates a PostgREST client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		restURL:    strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
		metrics:    cfg.Metrics,
	}, nil
}

// =============================================================================
// remote.Service
// =============================================================================

// Select issues a GET (or HEAD for head-only counts) on the table.
func (c *Client) Select(ctx context.Context, q remote.Query) (remote.Response, error) {
	if err := q.Validate(); err != nil {
		return remote.Response{}, fmt.Errorf("select %s: %w", q.Table, err)
	}

	params := url.Values{}
	params.Set("select", selectParam(q.Columns, q.Embeds))
	addFilters(params, q.Filters)
	if len(q.AnyOf) > 0 {
		params.Set("or", orParam(q.AnyOf))
	}
	if q.Order != nil {
		params.Set("order", orderParam(*q.Order))
	}
	if q.Range == nil && q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	method := http.MethodGet
	if q.Head {
		method = http.MethodHead
	}

	req, err := c.newRequest(ctx, method, q.Table, params, nil)
	if err != nil {
		return remote.Response{}, err
	}
	if q.Range != nil {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", q.Range.From, q.Range.To))
	}
	if q.Count {
		req.Header.Set("Prefer", "count=exact")
	}
	if q.Single {
		req.Header.Set("Accept", acceptObject)
	}

	resp, err := c.do(req, "select", q.Table)
	if err != nil {
		return remote.Response{}, err
	}
	if q.Head {
		resp.Body = nil
	}
	return resp, nil
}

// Mutate issues a POST, PATCH or DELETE and returns the representation
// of the written rows.
func (c *Client) Mutate(ctx context.Context, m remote.Mutation) (remote.Response, error) {
	if err := m.Validate(); err != nil {
		return remote.Response{}, fmt.Errorf("%s %s: %w", m.Kind, m.Table, err)
	}

	params := url.Values{}
	addFilters(params, m.Filters)
	if m.Returning != nil {
		params.Set("select", selectParam(m.Returning.Columns, m.Returning.Embeds))
	}

	var (
		method string
		body   io.Reader
	)
	switch m.Kind {
	case remote.Insert:
		method = http.MethodPost
	case remote.Update:
		method = http.MethodPatch
	case remote.Delete:
		method = http.MethodDelete
	}
	if m.Kind != remote.Delete {
		data, err := json.Marshal(m.Values)
		if err != nil {
			return remote.Response{}, fmt.Errorf("marshal data: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, m.Table, params, body)
	if err != nil {
		return remote.Response{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Prefer", "return=representation")
	if m.Single {
		req.Header.Set("Accept", acceptObject)
	}

	return c.do(req, m.Kind.String(), m.Table)
}

// Ping fetches the REST root, which PostgREST serves as its OpenAPI description.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodHead, "", nil, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, "ping", "")
	return err
}

// =============================================================================
// Transport
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, table string, params url.Values, body io.Reader) (*http.Request, error) {
	reqURL := c.restURL + "/"
	if table != "" {
		reqURL += url.PathEscape(table)
	}
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, op, table string) (resp remote.Response, err error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return remote.Response{}, fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.metrics.ObserveRemote(backendName, op, table, err, elapsed)
		c.log.Debug("postgrest request",
			logger.String("method", req.Method),
			logger.String("table", table),
			logger.Duration("elapsed", elapsed),
			logger.Bool("ok", err == nil))
	}()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return remote.Response{}, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return remote.Response{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return remote.Response{}, parseError(body, httpResp.StatusCode)
	}

	resp.Body = body
	if total, ok := parseContentRange(httpResp.Header.Get("Content-Range")); ok {
		resp.Count = &total
	}
	return resp, nil
}

// parseContentRange extracts the total from "0-19/45" or "*/45".
// An unknown total ("0-19/*") is reported as absent.
func parseContentRange(h string) (int64, bool) {
	_, total, found := strings.Cut(h, "/")
	if !found || total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(statusCode)
		}
		return &remote.Error{
			Code:    "unknown",
			Message: msg,
			Status:  statusCode,
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	return &remote.Error{
		Code:    errResp.Code,
		Message: msg,
		Details: errResp.Details,
		Hint:    errResp.Hint,
		Status:  statusCode,
	}
}
