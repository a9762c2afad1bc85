package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry() *platform.Registry {
	return platform.NewRegistry(config.PlatformsConfig{BaseURL: "https://api.example.com/api/downloads"})
}

// fakeRelay answers FetchJSON and OpenStream from canned values.
type fakeRelay struct {
	mu      sync.Mutex
	targets []string

	jsonFn   func(target string) (*domain.RelayJSON, error)
	streamFn func(target, filename string) (*domain.RelayStream, error)
}

func (f *fakeRelay) FetchJSON(ctx context.Context, target string) (*domain.RelayJSON, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	return f.jsonFn(target)
}

func (f *fakeRelay) OpenStream(ctx context.Context, target, filename string) (*domain.RelayStream, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	return f.streamFn(target, filename)
}

func (f *fakeRelay) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.targets)
}

type staticEntitlement bool

func (e staticEntitlement) IsEntitled() bool { return bool(e) }

// memSettings is an in-memory SettingsRepository.
type memSettings struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemSettings() *memSettings {
	return &memSettings{values: make(map[string]string)}
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
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

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memSettings) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func (m *memSettings) Ping(ctx context.Context) error {
	return m.err
}
