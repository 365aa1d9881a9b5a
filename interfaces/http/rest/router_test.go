package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
	"github.com/nate123456/proof-editor-sub008/infrastructure/di"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Version *int `json:"version"`
	} `json:"meta"`
}

type apiError struct {
	Error bool   `json:"error"`
	Type  string `json:"type"`
	Code  string `json:"code"`
}

type commandResult struct {
	DocumentID string   `json:"document_id"`
	Version    int      `json:"version"`
	CreatedID  string   `json:"created_id"`
	RemovedIDs []string `json:"removed_ids"`
}

type testServer struct {
	t        *testing.T
	server   *httptest.Server
	recorder *tracetest.SpanRecorder
}

func newTestServer(t *testing.T, adjust ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Environment = "test"
	cfg.LogLevel = "error"
	cfg.CacheSweepInterval = 0
	cfg.AllowedOrigins = []string{"https://editor.example"}
	for _, fn := range adjust {
		fn(cfg)
	}

	container, cleanup, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	router := NewRouter(container.CommandBus, container.QueryBus, container.Collector, tracer, container.RateLimiter, cfg, container.Logger)
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return &testServer{t: t, server: server, recorder: recorder}
}

func (s *testServer) do(method, path string, body interface{}) (int, []byte, http.Header) {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, raw, resp.Header
}

func (s *testServer) command(method, path string, body interface{}, wantStatus int) commandResult {
	s.t.Helper()
	status, raw, _ := s.do(method, path, body)
	require.Equal(s.t, wantStatus, status, string(raw))

	var env apiEnvelope
	require.NoError(s.t, json.Unmarshal(raw, &env))
	require.True(s.t, env.Success)

	var result commandResult
	require.NoError(s.t, json.Unmarshal(env.Data, &result))
	return result
}

func (s *testServer) failure(method, path string, body interface{}, wantStatus int) apiError {
	s.t.Helper()
	status, raw, _ := s.do(method, path, body)
	require.Equal(s.t, wantStatus, status, string(raw))

	var e apiError
	require.NoError(s.t, json.Unmarshal(raw, &e))
	assert.True(s.t, e.Error)
	return e
}

func TestRouter_ProofLifecycle(t *testing.T) {
	s := newTestServer(t)

	created := s.command(http.MethodPost, "/api/v1/documents", nil, http.StatusCreated)
	require.NotEmpty(t, created.DocumentID)
	assert.Equal(t, 0, created.Version)
	base := "/api/v1/documents/" + created.DocumentID

	premise := s.command(http.MethodPost, base+"/statements",
		map[string]interface{}{"expected_version": 0, "content": "All men are mortal"}, http.StatusCreated)
	conclusion := s.command(http.MethodPost, base+"/statements",
		map[string]interface{}{"expected_version": 1, "content": "Socrates is mortal"}, http.StatusCreated)
	assert.Equal(t, 2, conclusion.Version)

	argument := s.command(http.MethodPost, base+"/arguments", map[string]interface{}{
		"expected_version": 2,
		"premises":         []string{premise.CreatedID},
		"conclusions":      []string{conclusion.CreatedID},
	}, http.StatusCreated)
	assert.NotEmpty(t, argument.CreatedID)

	status, raw, header := s.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1", header.Get("X-API-Version"))

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	var doc struct {
		Version    int               `json:"version"`
		Statements []json.RawMessage `json:"statements"`
		Arguments  []json.RawMessage `json:"arguments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, 3, doc.Version)
	assert.Len(t, doc.Statements, 2)
	assert.Len(t, doc.Arguments, 1)

	status, _, _ = s.do(http.MethodGet, base+"/validation", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = s.do(http.MethodGet, base+"/statistics", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	created := s.command(http.MethodPost, "/api/v1/documents", nil, http.StatusCreated)
	base := "/api/v1/documents/" + created.DocumentID
	statement := s.command(http.MethodPost, base+"/statements",
		map[string]interface{}{"expected_version": 0, "content": "p"}, http.StatusCreated)
	s.command(http.MethodPost, base+"/arguments", map[string]interface{}{
		"expected_version": 1,
		"premises":         []string{statement.CreatedID},
	}, http.StatusCreated)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "stale version",
			method:     http.MethodPost,
			path:       base + "/statements",
			body:       map[string]interface{}{"expected_version": 0, "content": "q"},
			wantStatus: http.StatusConflict,
			wantCode:   "VERSION_CONFLICT",
		},
		{
			name:       "statement still referenced",
			method:     http.MethodDelete,
			path:       base + "/statements/" + statement.CreatedID + "?expected_version=2",
			wantStatus: http.StatusConflict,
			wantCode:   "STATEMENT_IN_USE",
		},
		{
			name:       "unknown document",
			method:     http.MethodGet,
			path:       "/api/v1/documents/8f14e45f-ceea-4d67-a1f3-9b5a2e0c7d11",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown premise",
			method:     http.MethodPost,
			path:       base + "/arguments",
			body:       map[string]interface{}{"expected_version": 2, "premises": []string{"missing"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNKNOWN_STATEMENT",
		},
		{
			name:       "empty content",
			method:     http.MethodPost,
			path:       base + "/statements",
			body:       map[string]interface{}{"expected_version": 2, "content": ""},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_COMMAND",
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			path:       base + "/statements",
			body:       `{"content":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
		{
			name:       "non-numeric version",
			method:     http.MethodDelete,
			path:       base + "/statements/" + statement.CreatedID + "?expected_version=two",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_PARAMETER",
		},
		{
			name:       "document id is not a uuid",
			method:     http.MethodGet,
			path:       "/api/v1/documents/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_COMMAND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := s.failure(tt.method, tt.path, tt.body, tt.wantStatus)
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)
	e := s.failure(http.MethodGet, "/api/v2/documents", nil, http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND", e.Type)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, raw, _ := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, string(raw))

	status, _, _ = s.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, status)

	s.command(http.MethodPost, "/api/v1/documents", nil, http.StatusCreated)

	status, raw, _ = s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	body := string(raw)
	assert.Contains(t, body, `proof_editor_http_requests_total{method="POST",route="/api/v1/documents`)
	assert.Contains(t, body, `status="201"`)
	assert.Contains(t, body, `proof_editor_bus_operations_total{metric="command_count",type="CreateDocumentCommand"} 1`)
}

func TestRouter_TracesRequests(t *testing.T) {
	s := newTestServer(t)
	s.command(http.MethodPost, "/api/v1/documents", nil, http.StatusCreated)

	var traced bool
	for _, span := range s.recorder.Ended() {
		if strings.HasPrefix(span.Name(), "POST /api/v1/documents") {
			traced = true
		}
	}
	assert.True(t, traced)
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, s.server.URL+"/api/v1/documents", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://editor.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://editor.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		status, _, _ := s.do(http.MethodGet, "/api/v1/documents", nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, raw, header := s.do(http.MethodGet, "/api/v1/documents", nil)
	require.Equal(t, http.StatusTooManyRequests, status)
	assert.NotEmpty(t, header.Get("Retry-After"))

	var e apiError
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "RATE_LIMITED", e.Type)

	status, _, _ = s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status, "operational endpoints are not limited")
}
