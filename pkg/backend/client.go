package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	listview "github.com/goliatone/go-listview/components/listview"
)

// DefaultTimeout bounds every request that does not set its own budget.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 8 << 20

// Config configures the REST client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	Telemetry  listview.Telemetry
	Logger     *zerolog.Logger
}

// Client talks to the admin REST API. It implements both
// listview.CollectionFetcher and listview.MutationGateway.
type Client struct {
	baseURL   string
	timeout   time.Duration
	client    *http.Client
	userAgent string
	telemetry listview.Telemetry
	logger    *zerolog.Logger
}

var (
	_ listview.CollectionFetcher = (*Client)(nil)
	_ listview.MutationGateway   = (*Client)(nil)
)

// NewClient builds a client for a single configured base URL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid base url %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "go-listview"
	}
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	telemetry := cfg.Telemetry
	if telemetry == nil {
		telemetry = listview.MultiTelemetry(nil)
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:   timeout,
		client:    httpClient,
		userAgent: userAgent,
		telemetry: telemetry,
		logger:    logger,
	}, nil
}

// Request describes one call made through Do.
type Request struct {
	Method  string
	Path    string
	Body    any
	Timeout time.Duration
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Do races the request against its time budget. The budget is carried in
// the request context, so an expired request is also cancelled in the
// transport. Transport failures come back as NetworkError or TimeoutError;
// non-2xx statuses are returned as a Response for the caller to classify.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	budget := r.Timeout
	if budget <= 0 {
		budget = c.timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(reqCtx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := listview.AuthFromContext(ctx); auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		err = c.classify(reqCtx, budget, err)
		c.record(ctx, r, 0, started, err)
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = c.classify(reqCtx, budget, err)
		c.record(ctx, r, resp.StatusCode, started, err)
		return nil, err
	}
	c.record(ctx, r, resp.StatusCode, started, nil)
	c.logger.Debug().
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(started)).
		Msg("backend request")
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) classify(reqCtx context.Context, budget time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return listview.NewTimeoutError(budget, err)
	}
	return listview.NewNetworkError(err)
}

func (c *Client) record(ctx context.Context, r Request, status int, started time.Time, err error) {
	payload := map[string]any{
		"method":   r.Method,
		"path":     r.Path,
		"status":   status,
		"duration": time.Since(started),
	}
	if err != nil {
		payload["error"] = err.Error()
		payload["timeout"] = listview.IsTimeout(err)
	}
	c.telemetry.Record(ctx, "backend.request", payload)
}

// FetchCollection GETs endpoint and unwraps the record list.
func (c *Client) FetchCollection(ctx context.Context, endpoint string) ([]listview.RawRecord, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: endpoint})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, listview.NewHTTPStatusError(resp.Status, serverMessage(resp.Body))
	}
	return DecodeCollection(resp.Body)
}

// Create POSTs payload to endpoint.
func (c *Client) Create(ctx context.Context, endpoint string, payload map[string]any) (listview.RawRecord, error) {
	return c.mutate(ctx, listview.OpCreate, http.MethodPost, endpoint, payload)
}

// Update PUTs payload to the record path.
func (c *Client) Update(ctx context.Context, endpoint, id string, payload map[string]any) (listview.RawRecord, error) {
	return c.mutate(ctx, listview.OpUpdate, http.MethodPut, recordPath(endpoint, id), payload)
}

// Delete removes the record.
func (c *Client) Delete(ctx context.Context, endpoint, id string) error {
	_, err := c.mutate(ctx, listview.OpDelete, http.MethodDelete, recordPath(endpoint, id), nil)
	return err
}

func (c *Client) mutate(ctx context.Context, op listview.Operation, method, path string, payload map[string]any) (listview.RawRecord, error) {
	var body any
	if payload != nil {
		body = payload
	}
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, listview.NewMutationError(string(op), resp.Status, serverMessage(resp.Body))
	}
	return DecodeRecord(resp.Body), nil
}

func recordPath(endpoint, id string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + url.PathEscape(id)
}
