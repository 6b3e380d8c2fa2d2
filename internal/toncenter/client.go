package toncenter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
)

// DefaultBaseURL is the toncenter v2 mainnet endpoint.
const DefaultBaseURL = "https://toncenter.com/api/v2"

// apiKeyHeader carries the toncenter API key.
const apiKeyHeader = "X-API-Key"

var (
	// ErrAddressRequired is returned when a query has no address.
	ErrAddressRequired = errors.New("address is required")
	// ErrCursorPair is returned when only one of lt/hash is set.
	ErrCursorPair = errors.New("lt and hash must be provided together")
	// ErrBocRequired is returned by SendBoc for an empty message.
	ErrBocRequired = errors.New("boc is required")
)

// APIError is a non-2xx response or an envelope with ok=false.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("toncenter API: %s (HTTP %d)", msg, e.StatusCode)
	}
	return "toncenter API: " + msg
}

// envelope is the toncenter v2 response wrapper. Result stays raw because
// its shape depends on the method.
type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Code   int             `json:"code"`
}

// Client talks to the toncenter v2 HTTP API.
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

// New creates a Client. apiKey may be empty (rate-limited free tier).
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

// TransactionsQuery holds getTransactions parameters. Lt and Hash form the
// pagination cursor and must be set together.
type TransactionsQuery struct {
	Address  string
	Limit    int
	Lt       int64
	Hash     string
	ToLt     int64
	Archival bool
}

// Validate checks required and correlated parameters.
func (q TransactionsQuery) Validate() error {
	if strings.TrimSpace(q.Address) == "" {
		return ErrAddressRequired
	}
	if (q.Lt != 0) != (q.Hash != "") {
		return ErrCursorPair
	}
	return nil
}

func (q TransactionsQuery) values() url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	v := url.Values{}
	v.Set("address", q.Address)
	v.Set("limit", strconv.Itoa(limit))
	v.Set("to_lt", strconv.FormatInt(q.ToLt, 10))
	v.Set("archival", strconv.FormatBool(q.Archival))
	if q.Lt != 0 {
		v.Set("lt", strconv.FormatInt(q.Lt, 10))
	}
	if q.Hash != "" {
		v.Set("hash", q.Hash)
	}
	return v
}

// GetTransactions fetches an account's transactions, newest first.
func (c *Client) GetTransactions(ctx context.Context, q TransactionsQuery) ([]ton.RawTransaction, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getTransactions?"+q.values().Encode(), nil)
	if err != nil {
		return nil, err
	}

	result, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var txs []ton.RawTransaction
	if len(result) > 0 && !bytes.Equal(result, []byte("null")) {
		if err := json.Unmarshal(result, &txs); err != nil {
			return nil, fmt.Errorf("parsing transaction list: %w", err)
		}
	}
	c.logger.DebugContext(ctx, "fetched transactions", "address", q.Address, "count", len(txs))
	return txs, nil
}

type sendBocRequest struct {
	Boc string `json:"boc"`
}

type sendBocResult struct {
	Hash     string `json:"hash"`
	HashNorm string `json:"hash_norm"`
}

// SendBoc submits a serialized external message and returns its hash.
func (c *Client) SendBoc(ctx context.Context, boc string) (string, error) {
	boc = strings.TrimSpace(boc)
	if boc == "" {
		return "", ErrBocRequired
	}
	body, err := json.Marshal(sendBocRequest{Boc: boc})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendBocReturnHash", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	result, err := c.do(req)
	if err != nil {
		return "", err
	}
	var r sendBocResult
	if err := json.Unmarshal(result, &r); err != nil {
		return "", fmt.Errorf("parsing sendBoc result: %w", err)
	}
	if r.Hash == "" {
		return "", fmt.Errorf("toncenter API: sendBoc returned no hash")
	}
	c.logger.DebugContext(ctx, "message sent", "hash", r.Hash)
	return r.Hash, nil
}

// do executes req and unwraps the envelope.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toncenter request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(req.Context(), "toncenter response",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading toncenter response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Error
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parsing toncenter response: %w", decodeErr)
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: msg}
	}
	return env.Result, nil
}
