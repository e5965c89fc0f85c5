package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/internal/endpoints/example"
	"github.com/matzehuels/mcptools/internal/endpoints/health"
	"github.com/matzehuels/mcptools/pkg/errors"
)

func newTestServer(t *testing.T, transport string) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s, err := New(Options{
		Version:   "test",
		Transport: transport,
		Logger:    logger,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
	}, health.New(logger), example.New(example.Config{Version: "1.0"}, logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewRequiresEndpoints(t *testing.T) {
	_, err := New(Options{})
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig || !strings.Contains(err.Error(), "no endpoints available to run") {
		t.Errorf("err = %v", err)
	}

	logger := log.New(io.Discard)
	if _, err := New(Options{}, health.New(logger), health.New(logger)); err == nil {
		t.Error("duplicate endpoint names accepted")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, config.TransportHTTP)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("no request id header")
	}
	var got healthz
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Version != "test" || strings.Join(got.Endpoints, ",") != "health,example" {
		t.Errorf("healthz = %+v", got)
	}
}

func TestRequestIDReused(t *testing.T) {
	ts := newTestServer(t, config.TransportHTTP)
	const id = "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b"

	tests := []struct {
		sent string
		same bool
	}{
		{id, true},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
		req.Header.Set(RequestIDHeader, tt.sent)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.Header.Get(RequestIDHeader); (got == tt.sent) != tt.same || got == "" {
			t.Errorf("sent %q, got %q", tt.sent, got)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, config.TransportHTTP)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "# metrics\n" {
		t.Errorf("body = %q", body)
	}
}

func connect(t *testing.T, transport mcp.Transport) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, transport, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestEndpointsOverHTTP(t *testing.T) {
	ts := newTestServer(t, config.TransportHTTP)

	tests := []struct {
		name      string
		transport mcp.Transport
		tool      string
	}{
		{"streamable", &mcp.StreamableClientTransport{Endpoint: ts.URL + "/health/mcp"}, "get_health_status"},
		{"sse", &mcp.SSEClientTransport{Endpoint: ts.URL + "/example/sse"}, "hello_world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := connect(t, tt.transport)
			tools, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
			if err != nil {
				t.Fatal(err)
			}
			found := false
			for _, tool := range tools.Tools {
				found = found || tool.Name == tt.tool
			}
			if !found {
				t.Fatalf("tool %s not listed", tt.tool)
			}
			res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: tt.tool, Arguments: map[string]any{}})
			if err != nil || res.IsError {
				t.Fatalf("call: %v %+v", err, res)
			}
		})
	}
}

func TestTransportSelectsRoutes(t *testing.T) {
	tests := []struct {
		transport string
		path      string
		mounted   bool
	}{
		{config.TransportStreamable, "/health/sse", false},
		{config.TransportSSE, "/health/mcp", false},
		{config.TransportSSE, "/unknown/sse", false},
	}
	for _, tt := range tests {
		ts := newTestServer(t, tt.transport)
		resp, err := http.Get(ts.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.StatusCode != http.StatusNotFound; got != tt.mounted {
			t.Errorf("%s %s: status %d", tt.transport, tt.path, resp.StatusCode)
		}
	}
}

func TestRunShutsDown(t *testing.T) {
	s, err := New(Options{Addr: "127.0.0.1:0", Transport: config.TransportHTTP}, health.New(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run did not return")
	}
}
