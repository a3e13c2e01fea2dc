package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimingMiddlewareSetsHeader(t *testing.T) {
	h := TimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Process-Time") == "" {
		t.Fatalf("expected X-Process-Time header")
	}
}

func TestRateLimitMiddlewareBlocksBursts(t *testing.T) {
	// 2 requests per minute with burst 1: the second immediate request
	// from the same IP must be rejected.
	h := RateLimitMiddleware(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4321"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", second.Code)
	}

	// A different IP is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:4321"
	third := httptest.NewRecorder()
	h.ServeHTTP(third, other)
	if third.Code != http.StatusOK {
		t.Fatalf("other ip: status %d", third.Code)
	}
}
