package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Relay     RelayConfig     `yaml:"relay"`
	Platforms PlatformsConfig `yaml:"platforms"`
	Download  DownloadConfig  `yaml:"download"`
	Storage   StorageConfig   `yaml:"storage"`
	Client    ClientConfig    `yaml:"client"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
}

// RelayConfig holds outbound proxy relay configuration.
type RelayConfig struct {
	// Timeout bounds JSON-mode requests end to end. Streams only get HeaderTimeout.
	Timeout       time.Duration `yaml:"timeout" envconfig:"RELAY_TIMEOUT"`
	HeaderTimeout time.Duration `yaml:"header_timeout" envconfig:"RELAY_HEADER_TIMEOUT"`
	UserAgent     string        `yaml:"user_agent" envconfig:"RELAY_USER_AGENT"`
	MaxJSONBytes  int64         `yaml:"max_json_bytes" envconfig:"RELAY_MAX_JSON_BYTES"`
}

// PlatformsConfig holds the third-party video info API location.
type PlatformsConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"PLATFORM_BASE_URL"`
}

// DownloadConfig holds client-side download configuration.
type DownloadConfig struct {
	Dir            string        `yaml:"dir" envconfig:"DOWNLOAD_DIR"`
	CompletionHold time.Duration `yaml:"completion_hold" envconfig:"DOWNLOAD_COMPLETION_HOLD"`
	ChunkSize      int           `yaml:"chunk_size" envconfig:"DOWNLOAD_CHUNK_SIZE"`
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"STORAGE_PATH"`
}

// ClientConfig holds CLI client configuration.
type ClientConfig struct {
	ProxyURL string        `yaml:"proxy_url" envconfig:"CLIPGRAB_PROXY_URL"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"CLIPGRAB_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         9848,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Minute,
		},
		Relay: RelayConfig{
			Timeout:       30 * time.Second,
			HeaderTimeout: 30 * time.Second,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxJSONBytes:  10 << 20,
		},
		Platforms: PlatformsConfig{
			BaseURL: "https://apisnodz.com.br/api/downloads",
		},
		Download: DownloadConfig{
			Dir:            "downloads",
			CompletionHold: 1500 * time.Millisecond,
			ChunkSize:      64 << 10,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Client: ClientConfig{
			ProxyURL: "http://localhost:9848",
			Timeout:  60 * time.Second,
		},
	}
}

// Load reads configuration from defaults, then the YAML file, then
// environment variables. Each layer only overrides the values it sets.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Unset variables leave the file and default values in place.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if u, err := url.Parse(c.Platforms.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PLATFORM_BASE_URL must be an absolute URL")
	}
	if c.Relay.MaxJSONBytes <= 0 {
		return fmt.Errorf("RELAY_MAX_JSON_BYTES must be positive")
	}
	if c.Download.Dir == "" {
		return fmt.Errorf("DOWNLOAD_DIR is required")
	}
	if c.Download.CompletionHold < 0 {
		return fmt.Errorf("DOWNLOAD_COMPLETION_HOLD cannot be negative")
	}
	if c.Download.ChunkSize <= 0 {
		return fmt.Errorf("DOWNLOAD_CHUNK_SIZE must be positive")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("STORAGE_PATH is required")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
