package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUIHandler_Index(t *testing.T) {
	handler := NewUIHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.Index(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/html; charset=utf-8")
	}
	if !strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
		t.Error("response should contain HTML content")
	}
}
