package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusTooManyRequests, 20*time.Millisecond)
	c.Record(http.StatusBadGateway, 30*time.Millisecond)
	c.RecordAdvice(nil)
	c.RecordAdvice(errors.New("upstream"))
	c.RecordDocument()

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(3) {
		t.Fatalf("expected 3 requests, got %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"] != uint64(1) || snap["rateLimitedTotal"] != uint64(1) {
		t.Fatalf("unexpected error counters: %+v", snap)
	}
	if snap["avgDurationMs"] != float64(20) {
		t.Fatalf("expected avg 20ms, got %v", snap["avgDurationMs"])
	}
	if snap["adviceCallsTotal"] != uint64(2) || snap["adviceFailuresTotal"] != uint64(1) {
		t.Fatalf("unexpected advice counters: %+v", snap)
	}
	if snap["documentsRenderedTotal"] != uint64(1) {
		t.Fatalf("unexpected document counter: %+v", snap)
	}
}

func TestNilCollectorIgnoresRecords(t *testing.T) {
	var c *Collector
	c.Record(http.StatusOK, time.Millisecond)
	c.RecordAdvice(nil)
	c.RecordDocument()
}
