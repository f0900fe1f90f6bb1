package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laborcontract/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	user := auth.UserContext{UserID: "worker-1", Role: auth.RoleWorker}

	first := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/bulk-move", nil)
	first = first.WithContext(WithUser(first.Context(), user))
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/bulk-move", nil)
	second = second.WithContext(WithUser(second.Context(), user))
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	first := httptest.NewRequest(http.MethodGet, "/api/v1/wages/floor", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/wages/floor", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip key, got %d", secondRec.Code)
	}
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent())

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
	time.Sleep(60 * time.Millisecond)
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected request after window to pass, got %d", code)
	}
}

func TestCostlyOperationRateLimitScopes(t *testing.T) {
	limited := CostlyOperationRateLimit(6, time.Minute)(noContent())
	user := auth.UserContext{UserID: "employer-1", Role: auth.RoleEmployer}

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req = req.WithContext(WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost, "/api/v1/contracts/c1/advice"); code != http.StatusNoContent {
		t.Fatalf("expected first advice call to pass, got %d", code)
	}
	if code := send(http.MethodPost, "/api/v1/contracts/c2/advice"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second advice call to be throttled, got %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := send(http.MethodGet, "/api/v1/contracts/c1"); code != http.StatusNoContent {
			t.Fatalf("reads must not be throttled, got %d", code)
		}
	}
}

func TestCostlyRateScope(t *testing.T) {
	cases := map[string]costlyScope{
		"/api/v1/contracts/abc/advice": costlyScopeAdvice,
		"/api/v1/contracts/bulk-move":  costlyScopeBulk,
		"/contracts/bulk-delete/":      costlyScopeBulk,
		"/api/v1/contracts":            costlyScopeNone,
	}
	for path, want := range cases {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		if got := costlyRateScope(req); got != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}
