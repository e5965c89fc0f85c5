package integrations

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

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/httputil"
	"github.com/matzehuels/mcptools/pkg/observability"
)

// Client provides shared HTTP functionality for upstream API clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string

	attempts   int
	retryDelay time.Duration
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys passed to [Client.Cached] are stored under prefix with the
// given ttl. Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:       NewHTTPClient(),
		cache:      c,
		prefix:     prefix,
		ttl:        ttl,
		headers:    headers,
		attempts:   3,
		retryDelay: time.Second,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// SetTimeout sets the per-request timeout of the underlying HTTP client.
func (c *Client) SetTimeout(d time.Duration) { c.http.Timeout = d }

// SetRetry configures how GET requests are retried.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts = attempts
	c.retryDelay = delay
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.prefix + key
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := c.retry(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// Invalidate removes every cached value whose key starts with prefix.
func (c *Client) Invalidate(ctx context.Context, prefix string) (int, error) {
	return c.cache.DeletePrefix(ctx, c.prefix+prefix)
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and handles retries automatically.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, URL: url, Headers: headers}, v)
	return err
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		_, body, err = c.doRequest(ctx, Request{Method: http.MethodGet, URL: url})
		return err
	})
	return string(body), err
}

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    any // JSON-encoded when non-nil
}

// Do sends req and JSON-decodes a non-empty response body into v (if v is
// non-nil). It returns the response status code. GET requests are retried on
// network errors and 5xx responses; other methods are sent exactly once.
func (c *Client) Do(ctx context.Context, req Request, v any) (int, error) {
	var (
		status int
		body   []byte
	)
	send := func() error {
		var err error
		status, body, err = c.doRequest(ctx, req)
		return err
	}

	var err error
	if req.Method == "" || req.Method == http.MethodGet {
		err = c.retry(ctx, send)
	} else {
		err = send()
	}
	if err != nil {
		return status, err
	}
	if v == nil || len(bytes.TrimSpace(body)) == 0 {
		return status, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return status, errors.Wrap(errors.ErrCodeAPI, err, "decode response from %s", req.URL)
	}
	return status, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, c.attempts, c.retryDelay, fn)
}

func (c *Client) doRequest(ctx context.Context, r Request) (int, []byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	target := r.URL
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var payload io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return 0, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request body")
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return 0, nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return 0, nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s %s", method, req.URL.Path)
		}
		return 0, nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	if err != nil {
		return resp.StatusCode, nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}

	if err := checkStatus(method, req.URL.Path, resp.StatusCode, body); err != nil {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			err.RetryAfter = retryAfter
		}
		if resp.StatusCode >= 500 {
			return resp.StatusCode, body, httputil.Retryable(err)
		}
		return resp.StatusCode, body, err
	}
	return resp.StatusCode, body, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	RetryAfter int // seconds, from Retry-After on 429
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps the status onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrNetwork
	default:
		return nil
	}
}

// maxErrorBody bounds the response text kept on a StatusError.
const maxErrorBody = 512

func checkStatus(method, path string, code int, body []byte) *StatusError {
	if code >= 200 && code < 300 {
		return nil
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return &StatusError{Method: method, Path: path, StatusCode: code, Body: text}
}
