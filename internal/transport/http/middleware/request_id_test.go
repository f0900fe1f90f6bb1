package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laborcontract/internal/requestctx"
)

func TestRequestIDPropagatesHeader(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "req-1" {
			t.Fatalf("expected req-1, got %q", got)
		}
		if got := requestctx.GetClientIP(r.Context()); got != "203.0.113.7" {
			t.Fatalf("unexpected client ip %q", got)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "req-1" {
		t.Fatalf("expected response header to echo request id")
	}
}

func TestRequestIDGeneratesWhenMissingOrOversized(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for _, incoming := range []string{"", strings.Repeat("x", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set("X-Request-ID", incoming)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		got := rec.Header().Get("X-Request-ID")
		if got == "" || got == incoming {
			t.Fatalf("expected generated request id, got %q", got)
		}
	}
}
