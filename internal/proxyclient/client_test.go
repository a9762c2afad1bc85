package proxyclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

func newTestClient(url string) *Client {
	return New(config.ClientConfig{ProxyURL: url + "/", Timeout: 5 * time.Second})
}

func TestClient_FetchJSON(t *testing.T) {
	var gotURL, gotDownload string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/proxy" {
			t.Errorf("path = %q, want /api/proxy", r.URL.Path)
		}
		gotURL = r.URL.Query().Get("url")
		gotDownload = r.URL.Query().Get("download")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"play":"v.mp4"}}`))
	}))
	defer server.Close()

	target := "https://api.example.com/tiktok/dl?url=https%3A%2F%2Fwww.tiktok.com%2F%40a%2Fvideo%2F1"
	res, err := newTestClient(server.URL).FetchJSON(context.Background(), target)
	if err != nil {
		t.Fatalf("FetchJSON failed: %v", err)
	}
	if gotURL != target {
		t.Errorf("url param = %q, want %q", gotURL, target)
	}
	if gotDownload != "" {
		t.Errorf("download param = %q, want empty", gotDownload)
	}
	if !res.OK() {
		t.Errorf("status = %d, want 2xx", res.Status)
	}
	if string(res.Body) != `{"data":{"play":"v.mp4"}}` {
		t.Errorf("body = %s", res.Body)
	}
}

func TestClient_FetchJSON_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"API returned status 404","data":"nope"}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).FetchJSON(context.Background(), "https://x")
	if err != nil {
		t.Fatalf("FetchJSON failed: %v", err)
	}
	if res.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.Status)
	}
}

func TestClient_FetchJSON_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).FetchJSON(context.Background(), "https://x")
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Errorf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestClient_OpenStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("download") != "true" {
			t.Errorf("download param = %q, want true", r.URL.Query().Get("download"))
		}
		if r.URL.Query().Get("filename") != "clip.mp4" {
			t.Errorf("filename param = %q", r.URL.Query().Get("filename"))
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", "10")
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).OpenStream(context.Background(), "https://cdn/v.mp4", "clip.mp4")
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	defer res.Body.Close()

	if res.ContentType != "video/mp4" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if res.ContentLength != 10 {
		t.Errorf("content length = %d, want 10", res.ContentLength)
	}
	data, _ := io.ReadAll(res.Body)
	if string(data) != "0123456789" {
		t.Errorf("body = %q", data)
	}
}

func TestClient_OpenStream_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"API returned status 403","data":""}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).OpenStream(context.Background(), "https://cdn/v.mp4", "")
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	if res.OK() {
		t.Error("expected non-OK result")
	}
	if res.Body != nil {
		t.Error("body should be nil on failure")
	}
	if len(res.ErrorBody) == 0 {
		t.Error("expected error body")
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}
