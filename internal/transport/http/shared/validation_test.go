package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	cases := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"valid", `{"name":"a"}`, true, http.StatusOK},
		{"empty", ``, false, http.StatusBadRequest},
		{"unknown field", `{"name":"a","extra":1}`, false, http.StatusBadRequest},
		{"trailing object", `{"name":"a"}{"name":"b"}`, false, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			var dst payload
			if got := DecodeJSON(rec, req, "req", &dst); got != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, got)
			}
			if !tc.ok && rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestDecodeJSONTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	var dst struct {
		Name string `json:"name"`
	}
	if DecodeJSON(rec, req, "req", &dst) {
		t.Fatal("expected failure")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := ClientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 198.51.100.4 , 10.0.0.1")
	if got := ClientIP(req); got != "198.51.100.4" {
		t.Fatalf("expected forwarded host, got %q", got)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-3", nil)
	page := ParsePagination(req, DefaultPageLimit, MaxPageLimit)
	if page.Limit != MaxPageLimit || page.Offset != 0 {
		t.Fatalf("unexpected page %+v", page)
	}
}
