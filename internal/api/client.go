// Package api is the HTTP client for the dashboard's search endpoint.
//
// The client returns the "results" payload of a search response normalized
// to the {"todos": [...], "notes": [...]} shape, whichever endpoint served it.
// Decoding the individual records is left to the caller so that a malformed
// record can be dropped without failing the whole response.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 8 << 20

// Scope selects which collections a search covers
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeTodos Scope = "todos"
	ScopeNotes Scope = "notes"
)

// ParseScope validates a scope name; the empty string means ScopeAll
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeTodos:
		return ScopeTodos, nil
	case ScopeNotes:
		return ScopeNotes, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// Options configures a Client
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	Limit             int
	Scope             Scope
	RequestsPerSecond float64
	Tokens            oauth2.TokenSource
	// Transport is the base round tripper; http.DefaultTransport when nil
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client calls the search endpoint
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	limit   int
	scope   Scope
	logger  *slog.Logger
}

// NewClient creates a search client
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", opts.BaseURL)
	}

	scope := opts.Scope
	if scope == "" {
		scope = ScopeAll
	}
	if _, err := ParseScope(string(scope)); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	transport = gzhttp.Transport(transport)
	if opts.Tokens != nil {
		transport = &oauth2.Transport{Source: opts.Tokens, Base: transport}
	}

	c := &Client{
		base:   base,
		http:   &http.Client{Transport: transport, Timeout: opts.Timeout},
		limit:  opts.Limit,
		scope:  scope,
		logger: logger.With("component", "api"),
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c, nil
}

// Scope returns the collections this client searches
func (c *Client) Scope() Scope {
	return c.scope
}

// Search runs query against the backend and returns the normalized results
// payload. Cancelling ctx aborts the call; the error then wraps context.Canceled.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("rate limiter: %w: %v", context.DeadlineExceeded, err)
		}
	}

	endpoint := c.endpoint()
	params := url.Values{}
	params.Set("q", query)
	if c.limit > 0 {
		params.Set("limit", strconv.Itoa(c.limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	requestID := RequestIDFrom(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	c.logger.Debug("search request finished",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}

	return c.normalize(body)
}

func (c *Client) endpoint() *url.URL {
	switch c.scope {
	case ScopeTodos:
		return c.base.JoinPath("search", "todos")
	case ScopeNotes:
		return c.base.JoinPath("search", "notes")
	default:
		return c.base.JoinPath("search/")
	}
}

// normalize extracts "results" and reshapes per-collection endpoints, whose
// results field is a bare array, into the combined object form.
func (c *Client) normalize(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	results := gjson.GetBytes(body, "results")

	switch c.scope {
	case ScopeTodos, ScopeNotes:
		if !results.IsArray() {
			return []byte(`{}`), nil
		}
		out, err := sjson.SetRawBytes([]byte(`{}`), string(c.scope), []byte(results.Raw))
		if err != nil {
			return nil, fmt.Errorf("normalize %s results: %w", c.scope, err)
		}
		return out, nil
	default:
		if !results.IsObject() {
			return []byte(`{}`), nil
		}
		return []byte(results.Raw), nil
	}
}

// errorMessage pulls the human-readable reason out of an error body.
// The search routes use "error"; the JWT layer uses "msg".
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, field := range []string{"error", "msg", "message"} {
		if v := gjson.GetBytes(body, field); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is sent as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id attached to ctx, if any
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
