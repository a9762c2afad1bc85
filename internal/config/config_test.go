package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 9848},
		Relay:     RelayConfig{MaxJSONBytes: 1024},
		Platforms: PlatformsConfig{BaseURL: "https://api.example.com/dl"},
		Download:  DownloadConfig{Dir: "downloads", ChunkSize: 4096},
		Storage:   StorageConfig{DataDir: "data"},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() should pass, got %v", err)
	}
}

func TestConfig_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"relative base URL", func(c *Config) { c.Platforms.BaseURL = "/api/downloads" }},
		{"empty base URL", func(c *Config) { c.Platforms.BaseURL = "" }},
		{"zero max json", func(c *Config) { c.Relay.MaxJSONBytes = 0 }},
		{"empty download dir", func(c *Config) { c.Download.Dir = "" }},
		{"negative hold", func(c *Config) { c.Download.CompletionHold = -time.Second }},
		{"zero chunk size", func(c *Config) { c.Download.ChunkSize = 0 }},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "default",
			cfg:  ServerConfig{Host: "0.0.0.0", Port: 9848},
			want: "0.0.0.0:9848",
		},
		{
			name: "localhost",
			cfg:  ServerConfig{Host: "localhost", Port: 8080},
			want: "localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9848 {
		t.Errorf("Port = %d, want 9848", cfg.Server.Port)
	}
	if cfg.Platforms.BaseURL != "https://apisnodz.com.br/api/downloads" {
		t.Errorf("BaseURL = %q", cfg.Platforms.BaseURL)
	}
	if cfg.Download.CompletionHold != 1500*time.Millisecond {
		t.Errorf("CompletionHold = %v, want 1.5s", cfg.Download.CompletionHold)
	}
	if cfg.Relay.MaxJSONBytes != 10485760 {
		t.Errorf("MaxJSONBytes = %d, want 10485760", cfg.Relay.MaxJSONBytes)
	}
	if cfg.Server.APIKey != "" {
		t.Errorf("APIKey should default to empty, got %q", cfg.Server.APIKey)
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  port: 8080
  api_key: "yaml-api-key"
platforms:
  base_url: "https://mirror.example.com/api"
download:
  dir: "/tmp/x"
  completion_hold: 0s
relay:
  user_agent: "yaml-agent"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.APIKey != "yaml-api-key" {
		t.Errorf("APIKey = %q, want %q", cfg.Server.APIKey, "yaml-api-key")
	}
	if cfg.Platforms.BaseURL != "https://mirror.example.com/api" {
		t.Errorf("BaseURL = %q, want the YAML value", cfg.Platforms.BaseURL)
	}
	if cfg.Download.Dir != "/tmp/x" {
		t.Errorf("Download.Dir = %q, want %q", cfg.Download.Dir, "/tmp/x")
	}
	if cfg.Download.CompletionHold != 0 {
		t.Errorf("CompletionHold = %v, want 0", cfg.Download.CompletionHold)
	}
	if cfg.Relay.UserAgent != "yaml-agent" {
		t.Errorf("UserAgent = %q, want %q", cfg.Relay.UserAgent, "yaml-agent")
	}

	// Values the file does not mention keep their defaults.
	if cfg.Download.ChunkSize != 65536 {
		t.Errorf("ChunkSize = %d, want 65536", cfg.Download.ChunkSize)
	}
	if cfg.Storage.DataDir != "data" {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, "data")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  api_key: "yaml-api-key"
platforms:
  base_url: "https://yaml.example.com/api"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("API_KEY", "env-api-key")
	t.Setenv("DOWNLOAD_DIR", "/env/downloads")
	t.Setenv("PLATFORM_BASE_URL", "https://mirror.example.com/api")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.APIKey != "env-api-key" {
		t.Errorf("APIKey should be from env, got %q", cfg.Server.APIKey)
	}
	if cfg.Download.Dir != "/env/downloads" {
		t.Errorf("Download.Dir should be from env, got %q", cfg.Download.Dir)
	}
	if cfg.Platforms.BaseURL != "https://mirror.example.com/api" {
		t.Errorf("BaseURL should be from env, got %q", cfg.Platforms.BaseURL)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
server:
  host: "localhost
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load should fail for nonexistent file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("PLATFORM_BASE_URL", "not a url")

	_, err := Load("")
	if err == nil {
		t.Error("Load should fail validation for a relative base URL")
	}
}
