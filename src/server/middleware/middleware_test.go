package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-forum/server/src/server/data"
)

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"Bearer abc.def":  "abc.def",
		"bearer abc.def":  "abc.def",
		"Basic dXNlcjpw":  "",
		"Bearer":          "",
		"Bearer  spaced ": "spaced",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(req), "header %q", header)
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, http.StatusNotFound, "Question does not exist.")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Question does not exist."}`, rec.Body.String())
}

func TestParseJSONBodyNormalizesAliases(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/question", strings.NewReader(
		`{"userDetails":{"username":"a@b.com","password":"abcde"},"question":{"title":"t","body":"b"}}`,
	))
	var body data.QuestionRequest
	require.NoError(t, ParseJSONBody(req, &body))
	assert.Equal(t, "a@b.com", body.UserDetails.Username)
	require.NotNil(t, body.Question)
	assert.Equal(t, "t", body.Question.Title)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":`))
	assert.Error(t, ParseJSONBody(req, &data.Credentials{}))
}

func TestLoggingIncludesStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := chimw.RequestID(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/question/1", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line["msg"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.Equal(t, "/question/1", line["path"])
	assert.NotEmpty(t, line["request_id"])
}

func TestMetricsUseRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/question/{qID}", func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusOK, data.MessageResponse{Message: "ok"})
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/question/"+id, nil))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `forum_http_requests_total{method="GET",route="/question/{qID}",status="200"} 3`)
	assert.NotContains(t, string(body), `route="/question/1"`)
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1001").Code)
	limited := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"Too many requests. Try again later."}`, limited.Body.String())

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1000").Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(10 * time.Minute)
	rl.getLimiter("fresh")
	rl.Cleanup(5 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "old")
	assert.Contains(t, rl.limiters, "fresh")
}
