package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	base := pipeline.Options{Measurer: diagram.FixedMeasurer{Width: 120, Height: 40}}
	if err := base.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetHTTPHooks(metrics)
	t.Cleanup(observability.Reset)

	srv := httptest.NewServer(newServer(pipeline.NewRunner(logger), base, 1<<16, reg, logger).routes())
	t.Cleanup(srv.Close)
	return srv, reg
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServeLayout(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/v1/layout?mode=teams&viewport=800", testChartJSON)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var l diagram.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	if l.Mode != diagram.ModeTeams || l.ViewportWidth != 800 {
		t.Errorf("mode = %s viewport = %g, want teams 800", l.Mode, l.ViewportWidth)
	}
	if len(l.Nodes) != 2 || len(l.Edges) != 1 {
		t.Errorf("got %d nodes %d edges, want 2 and 1", len(l.Nodes), len(l.Edges))
	}
}

func TestServeLayoutZeroViewport(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/v1/layout?viewport=0", testChartJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var l diagram.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	if l.ViewportWidth != 0 || l.Translation != 0 {
		t.Errorf("viewport = %g translation = %g, want an uncentered drawing", l.ViewportWidth, l.Translation)
	}
}

func TestServeTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")
	c := New(&bytes.Buffer{}, log.InfoLevel)
	shutdown, err := c.installTracer(path)
	if err != nil {
		t.Fatalf("installTracer() error = %v", err)
	}

	srv, _ := newTestServer(t)
	if resp := post(t, srv.URL+"/v1/render?format=svg", testChartJSON); resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, span := range []string{"pipeline.layout", "pipeline.render"} {
		if !strings.Contains(string(data), span) {
			t.Errorf("trace file lacks %s span", span)
		}
	}
}

func TestServeTraceFileUnwritable(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	_, err := c.installTracer(filepath.Join(t.TempDir(), "missing", "spans.json"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("installTracer() error = %v, want INVALID_PATH", err)
	}
}

func TestServeRender(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"dot", "text/vnd.graphviz", "digraph"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/render?format="+tt.format, testChartJSON)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(body, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", body[:min(len(body), 20)], tt.prefix)
			}
		})
	}
}

func TestServeErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad format", "/v1/render?format=gif", testChartJSON, 400, "INVALID_FORMAT"},
		{"json via render", "/v1/render?format=json", testChartJSON, 400, "INVALID_FORMAT"},
		{"bad mode", "/v1/layout?mode=all-hands", testChartJSON, 400, "INVALID_MODE"},
		{"bad viewport", "/v1/layout?viewport=wide", testChartJSON, 400, "INVALID_INPUT"},
		{"NaN viewport", "/v1/layout?viewport=NaN", testChartJSON, 400, "INVALID_CONFIG"},
		{"infinite viewport", "/v1/layout?viewport=Inf", testChartJSON, 400, "INVALID_CONFIG"},
		{"NaN viewport render", "/v1/render?format=svg&viewport=NaN", testChartJSON, 400, "INVALID_CONFIG"},
		{"malformed chart", "/v1/layout", `{"members": [`, 400, "INVALID_CHART"},
		{"two roots", "/v1/layout", `{"members":[{"id":"a","name":"A"},{"id":"b","name":"B"}]}`, 400, "INVALID_CHART"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if string(e.Code) != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Error)
			}
		})
	}
}

func TestServeMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	// Draining the body guarantees the handler, and with it the hooks, finished.
	_, _ = io.ReadAll(post(t, srv.URL+"/v1/layout", testChartJSON).Body)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("orgchart_")) {
		t.Error("metrics output has no orgchart_ series")
	}
	if !bytes.Contains(body, []byte(`route="/v1/layout"`)) {
		t.Error("metrics missing /v1/layout route label")
	}
}
