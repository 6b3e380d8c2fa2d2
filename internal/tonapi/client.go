package tonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
)

// DefaultBaseURL is the tonapi mainnet endpoint.
const DefaultBaseURL = "https://tonapi.io"

// ErrTraceIDRequired is returned by GetTrace for an empty id.
var ErrTraceIDRequired = errors.New("trace id is required")

// APIError is a non-2xx tonapi response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tonapi: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("tonapi: %s (HTTP %d)", e.Message, e.StatusCode)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the tonapi v2 HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. The key is sent as a bearer token when non-empty.
func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TraceResponse is a fetched trace: the decoded tree plus the body as
// received, which is what gets persisted.
type TraceResponse struct {
	Root *ton.TraceNode
	Raw  json.RawMessage
}

// TracePath returns the request path for id. Ids that parse as a 32-byte
// hash are sent in hex; anything else is path-escaped as given.
func TracePath(id string) string {
	if h, err := ton.NormalizeHash(id); err == nil {
		return "/v2/traces/" + ton.HexHash(h)
	}
	return "/v2/traces/" + url.PathEscape(strings.TrimSpace(id))
}

// GetTrace fetches the trace identified by a trace id or transaction hash.
func (c *Client) GetTrace(ctx context.Context, traceID string) (*TraceResponse, error) {
	if strings.TrimSpace(traceID) == "" {
		return nil, ErrTraceIDRequired
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+TracePath(traceID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tonapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading tonapi response: %w", err)
	}
	c.logger.DebugContext(ctx, "tonapi response",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.Error
		}
		return nil, apiErr
	}

	var root ton.TraceNode
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("parsing trace: %w", err)
	}
	return &TraceResponse{Root: &root, Raw: json.RawMessage(body)}, nil
}
