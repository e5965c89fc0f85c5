package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/httputil"
)

func testClient(t *testing.T, server *httptest.Server, headers map[string]string) *Client {
	t.Helper()
	client := NewClient(cache.NewMemoryCache(), "test:", time.Hour, headers)
	client.http = server.Client()
	client.SetRetry(3, time.Millisecond)
	return client
}

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	headers := map[string]string{"xc-token": "secret"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", client.http.Timeout)
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["xc-token"] != "secret" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "", 0, nil)
	if client.cache == nil {
		t.Fatal("nil cache should fall back to NullCache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	var resp response
	err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var override, def string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		override = r.Header.Get("X-Override")
		def = r.Header.Get("X-Default")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := testClient(t, server, map[string]string{"X-Override": "default", "X-Default": "kept"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if override != "overridden" || def != "kept" {
		t.Errorf("headers = %q, %q", override, def)
	}
}

func TestClientGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text response"))
	}))
	defer server.Close()

	text, err := testClient(t, server, nil).GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "plain text response" {
		t.Errorf("GetText() = %q, want %q", text, "plain text response")
	}
}

func TestClientDoPostsJSON(t *testing.T) {
	var gotBody []map[string]any
	var gotType, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"records": [{"id": 7}]}`))
	}))
	defer server.Close()

	var out struct {
		Records []map[string]any `json:"records"`
	}
	status, err := testClient(t, server, nil).Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Query:  map[string][]string{"a": {"1"}},
		Body:   []map[string]any{{"fields": map[string]any{"Name": "x"}}},
	}, &out)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if status != http.StatusCreated {
		t.Errorf("status = %d", status)
	}
	if gotType != "application/json" || gotQuery != "a=1" {
		t.Errorf("content-type %q, query %q", gotType, gotQuery)
	}
	if len(gotBody) != 1 || len(out.Records) != 1 {
		t.Errorf("body %v, out %v", gotBody, out)
	}
	if id, _ := out.Records[0]["id"].(json.Number); id.String() != "7" {
		t.Errorf("numbers should decode as json.Number, got %T", out.Records[0]["id"])
	}
}

func TestClientDo204(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var out map[string]any
	status, err := testClient(t, server, nil).Do(context.Background(), Request{Method: http.MethodDelete, URL: server.URL}, &out)
	if err != nil || status != http.StatusNoContent || out != nil {
		t.Errorf("Do() = %d, %v, %v", status, out, err)
	}
}

func TestClientGet404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Table not found", http.StatusNotFound)
	}))
	defer server.Close()

	var resp map[string]string
	err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Body != "Table not found" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestClientGet500Retries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var resp map[string]string
	err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp)
	if err == nil {
		t.Fatal("Get() should return error for 500")
	}
	if !httputil.IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error should be a retryable network error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClientPost500DoesNotRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(t, server, nil).Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL, Body: map[string]any{}}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("mutating request sent %d times", calls)
	}
}

func TestClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(t, server, nil).Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.RetryAfter != 12 || !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v", err)
	}
}

func TestClientCached(t *testing.T) {
	ctx := context.Background()
	client := NewClient(cache.NewMemoryCache(), "test:", time.Hour, nil)

	fetchCount := 0
	type testData struct {
		Value string `json:"value"`
	}
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			*v = testData{Value: "fetched"}
			return nil
		}
	}

	var first testData
	if err := client.Cached(ctx, "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second testData
	if err := client.Cached(ctx, "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 || second.Value != "fetched" {
		t.Errorf("fetch count = %d, value %q", fetchCount, second.Value)
	}

	var third testData
	_ = client.Cached(ctx, "key", true, &third, fetch(&third))
	if fetchCount != 2 {
		t.Errorf("refresh should fetch again, count = %d", fetchCount)
	}

	if n, err := client.Invalidate(ctx, "ke"); err != nil || n != 1 {
		t.Errorf("Invalidate = %d, %v", n, err)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := NewClient(cache.NewMemoryCache(), "test:", time.Hour, nil)

	var value string
	fetchCount := 0
	fetch := func() error {
		fetchCount++
		return ErrNotFound // Non-retryable error
	}

	err := client.Cached(context.Background(), "missing", false, &value, fetch)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if _, hit, _ := client.cache.Get(context.Background(), "test:missing"); hit {
		t.Error("failed fetch must not be cached")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantErr  bool
		wantType error
	}{
		{"200 OK", 200, false, nil},
		{"201 Created", 201, false, nil},
		{"204 No Content", 204, false, nil},
		{"404 Not Found", 404, true, ErrNotFound},
		{"429 Too Many Requests", 429, true, ErrRateLimited},
		{"500 Internal Server Error", 500, true, ErrNetwork},
		{"503 Service Unavailable", 503, true, ErrNetwork},
		{"400 Bad Request", 400, true, nil},
		{"403 Forbidden", 403, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := checkStatus("GET", "/x", tt.code, []byte(" body "))
			if !tt.wantErr {
				if se != nil {
					t.Errorf("checkStatus() unexpected error: %v", se)
				}
				return
			}
			if se == nil {
				t.Fatal("checkStatus() should return error")
			}
			if se.Body != "body" {
				t.Errorf("Body = %q", se.Body)
			}
			if tt.wantType != nil && !errors.Is(se, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", se, tt.wantType)
			}
			if tt.wantType == nil && se.Unwrap() != nil {
				t.Errorf("Unwrap() = %v, want nil", se.Unwrap())
			}
		})
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://nocodb.example.com:8443/api"); got != "nocodb.example.com:8443" {
		t.Errorf("Host = %q", got)
	}
}
