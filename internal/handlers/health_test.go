package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthzReportsUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	handlers := NewHealthHandlers(WithHealthClock(func() time.Time { return now }))
	now = start.Add(30 * time.Second)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handlers.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected status: %v", body["status"])
	}
	if body["uptime"] != "30s" {
		t.Errorf("unexpected uptime: %v", body["uptime"])
	}
}

func TestReadyzRunsChecks(t *testing.T) {
	called := 0
	handlers := NewHealthHandlers(WithReadinessChecks(ReadinessCheck{
		Name:  "firestore",
		Probe: func(context.Context) error { called++; return nil },
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	handlers.Readyz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if called != 1 {
		t.Errorf("expected probe invoked once, got %d", called)
	}
}

func TestReadyzReportsFailure(t *testing.T) {
	handlers := NewHealthHandlers(WithReadinessChecks(ReadinessCheck{
		Name:  "firestore",
		Probe: func(context.Context) error { return errors.New("dial timeout") },
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	handlers.Readyz(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "not_ready" {
		t.Errorf("unexpected error code: %v", body["error"])
	}
}
