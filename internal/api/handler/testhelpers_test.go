package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/relay"
	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRelay() *relay.Relay {
	return relay.New(config.RelayConfig{
		Timeout:       5 * time.Second,
		HeaderTimeout: 5 * time.Second,
		UserAgent:     "clipgrab-test",
		MaxJSONBytes:  1 << 20,
	}, testLogger())
}

// mockSettings is an in-memory repository.SettingsRepository.
type mockSettings struct {
	mu      sync.Mutex
	values  map[string]string
	err     error
	pingErr error
}

func newMockSettings() *mockSettings {
	return &mockSettings{values: make(map[string]string)}
}

func (m *mockSettings) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return v, nil
}

func (m *mockSettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mockSettings) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettings) Ping(ctx context.Context) error {
	return m.pingErr
}

// newResolveFixture wires a ResolveHandler whose platform API is upstream.
func newResolveFixture(t *testing.T, upstream http.Handler, entitled bool) *ResolveHandler {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	registry := platform.NewRegistry(config.PlatformsConfig{BaseURL: server.URL + "/api/downloads"})

	settings := newMockSettings()
	if entitled {
		settings.values[service.EntitlementKey] = "true"
	}
	entitlement := service.NewEntitlementService(settings, testLogger())
	if err := entitlement.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	search := service.NewSearchService(registry, relay.NewLocal(testRelay()), entitlement, testLogger())
	return NewResolveHandler(search, registry, testLogger())
}
