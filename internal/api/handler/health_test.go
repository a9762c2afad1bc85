package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthHandler_Live(t *testing.T) {
	handler := NewHealthHandler(newMockSettings(), t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Live(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
	if resp.Timestamp == "" {
		t.Error("timestamp should not be empty")
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		status  int
		body    string
	}{
		{"store reachable", nil, http.StatusOK, "ok"},
		{"store down", errors.New("database is closed"), http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newMockSettings()
			settings.pingErr = tt.pingErr
			handler := NewHealthHandler(settings, t.TempDir())

			w := httptest.NewRecorder()
			handler.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var resp HealthResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Status != tt.body {
				t.Errorf("status field = %q, want %q", resp.Status, tt.body)
			}
		})
	}
}

func TestHealthHandler_Stats(t *testing.T) {
	dir := t.TempDir()
	handler := NewHealthHandler(newMockSettings(), dir)

	w := httptest.NewRecorder()
	handler.Stats(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var stats SystemStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if stats.NumCPU <= 0 {
		t.Errorf("NumCPU = %d", stats.NumCPU)
	}
	if stats.NumGoroutines <= 0 {
		t.Errorf("NumGoroutines = %d", stats.NumGoroutines)
	}
	if stats.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", stats.DataDir, dir)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "5m"},
		{2*time.Hour + 3*time.Minute, "2h 3m"},
		{49*time.Hour + 10*time.Minute, "2d 1h 10m"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
