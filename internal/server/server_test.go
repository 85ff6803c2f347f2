package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pdext/pkg/cache"
	"github.com/matzehuels/pdext/pkg/observability"
	"github.com/matzehuels/pdext/pkg/pipeline"
)

const stripesCSV = "year,anomaly\n2000,-0.4\n2001,-0.1\n2002,0.0\n2003,0.2\n2004,0.5\n"

func newTestServer(t *testing.T, opts ...Option) (*Server, http.Handler) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, logger)
	t.Cleanup(func() { runner.Close() })
	s := New(runner, logger, opts...)
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func renderBody(t *testing.T, options any) []byte {
	t.Helper()
	raw, err := json.Marshal(options)
	require.NoError(t, err)
	body, err := json.Marshal(RenderRequest{CSV: stripesCSV, Options: raw})
	require.NoError(t, err)
	return body
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er), rec.Body.String())
	return er
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDEchoed(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil, HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestCharts(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/v1/charts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var charts []ChartInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &charts))
	require.Len(t, charts, 3)
	for _, c := range charts {
		assert.Contains(t, c.Formats, "svg", c.Name)
		if c.Name == pipeline.ChartCalendar {
			assert.Contains(t, c.Formats, "html")
		} else {
			assert.NotContains(t, c.Formats, "html", c.Name)
		}
	}
}

func TestRenderStripes(t *testing.T) {
	_, h := newTestServer(t)
	body := renderBody(t, map[string]any{"column": "anomaly", "index": "year"})

	rec := do(t, h, http.MethodPost, "/v1/render/stripes?format=svg", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get(HeaderCache))
	assert.NotEmpty(t, rec.Header().Get(HeaderFrameHash))
	assert.Contains(t, rec.Body.String(), "<svg")

	again := do(t, h, http.MethodPost, "/v1/render/stripes?format=svg", body)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "hit", again.Header().Get(HeaderCache))
	assert.Equal(t, rec.Body.Bytes(), again.Body.Bytes())
}

func TestRenderJSON(t *testing.T) {
	_, h := newTestServer(t)
	body := renderBody(t, map[string]any{"column": "anomaly", "index": "year"})

	rec := do(t, h, http.MethodPost, "/v1/render/stripes?format=json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Chart string          `json:"chart"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "stripes", env.Chart)
	assert.NotEmpty(t, env.Data)
}

func TestRenderErrors(t *testing.T) {
	_, h := newTestServer(t)
	good := renderBody(t, map[string]any{"column": "anomaly"})

	tests := []struct {
		name     string
		target   string
		body     []byte
		wantCode int
		wantErr  string
	}{
		{"unknown chart", "/v1/render/pie", good, http.StatusBadRequest, "INVALID_CHART"},
		{"unknown format", "/v1/render/stripes?format=gif", good, http.StatusBadRequest, "INVALID_FORMAT"},
		{"html for stripes", "/v1/render/stripes?format=html", good, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad json", "/v1/render/stripes", []byte("{"), http.StatusBadRequest, "INVALID_INPUT"},
		{"empty csv", "/v1/render/stripes", []byte(`{"csv":""}`), http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown option", "/v1/render/stripes", renderBody(t, map[string]any{"colour": "x"}), http.StatusBadRequest, "INVALID_INPUT"},
		{"missing column", "/v1/render/stripes", renderBody(t, map[string]any{"column": "nope"}), http.StatusBadRequest, "MISSING_COLUMN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	_, h := newTestServer(t, WithMaxBodyBytes(16))
	rec := do(t, h, http.MethodPost, "/v1/render/stripes", renderBody(t, map[string]any{"column": "anomaly"}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGeometry(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/v1/geometry/circle", []byte("radius\n1\n2\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "miss", rec.Header().Get(HeaderCache))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "radius,circumference,area", lines[0])

	again := do(t, h, http.MethodPost, "/v1/geometry/circle", []byte("radius\n1\n2\n"))
	assert.Equal(t, "hit", again.Header().Get(HeaderCache))

	custom := do(t, h, http.MethodPost, "/v1/geometry/sphere?radius=r", []byte("r\n1\n"))
	require.Equal(t, http.StatusOK, custom.Code, custom.Body.String())
	assert.True(t, strings.HasPrefix(custom.Body.String(), "r,surface_area,volume"))
}

func TestGeometryErrors(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/geometry/cube", []byte("radius\n1\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/geometry/circle", []byte("r\n1\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_COLUMN", decodeError(t, rec).Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/v1/render/stripes", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStats(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/v1/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	counters := &observability.Counters{}
	observability.SetHTTPHooks(counters)
	t.Cleanup(observability.Reset)

	_, h = newTestServer(t, WithCounters(counters))
	do(t, h, http.MethodGet, "/healthz", nil)
	do(t, h, http.MethodGet, "/nope", nil)
	rec = do(t, h, http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(3), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors)
}

func TestServeShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
