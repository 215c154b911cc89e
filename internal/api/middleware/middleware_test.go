package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))

		got := rec.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("response header %q is not a UUID", got)
		}
		if seen != got {
			t.Errorf("context id %q != response header %q", seen, got)
		}
	})

	t.Run("keeps a valid inbound id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set(RequestIDHeader, id)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != id {
			t.Errorf("header = %q, want the inbound id %q", got, id)
		}
	})

	t.Run("replaces a malformed inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid\n<script>")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("malformed inbound id should be replaced, got %q", got)
		}
	})
}

func TestMetricsCollector(t *testing.T) {
	newHandler := func(status int) (*MetricsCollector, http.Handler) {
		var requests, errors atomic.Int64
		mc := NewMetricsCollector(&requests, &errors)
		return mc, mc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
	}

	t.Run("counts requests", func(t *testing.T) {
		mc, handler := newHandler(http.StatusOK)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))

		if got := mc.requestCount.Load(); got != 2 {
			t.Errorf("request count = %d, want 2", got)
		}
		if got := mc.errorCount.Load(); got != 0 {
			t.Errorf("error count = %d, want 0", got)
		}
	})

	t.Run("counts 4xx and 5xx as errors", func(t *testing.T) {
		mc, handler := newHandler(http.StatusNotFound)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))

		if got := mc.errorCount.Load(); got != 1 {
			t.Errorf("error count = %d, want 1", got)
		}
	})

	t.Run("probe endpoints are not counted", func(t *testing.T) {
		mc, handler := newHandler(http.StatusOK)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if got := mc.requestCount.Load(); got != 0 {
			t.Errorf("request count = %d, want probes excluded", got)
		}
	})
}
