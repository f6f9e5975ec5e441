// Package config provides YAML-based configuration loading for attune.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level attune configuration, loaded from ~/.attune.yaml
// or the path given with --config. Every field has a working default so the
// client runs against a local backend with no config file at all.
type Config struct {
	BackendURL   string
	WebsocketURL string
	LogFile      string
	DownloadDir  string

	ReconnectDelay  time.Duration
	RefreshInterval time.Duration
	SearchDebounce  time.Duration
	RequestTimeout  time.Duration

	SearchMinLength int
	SearchLimit     int
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file is not an error: defaults are used instead.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// rawConfig is the wire shape; durations are written as strings ("3s",
// "300ms") and parsed with time.ParseDuration.
type rawConfig struct {
	BackendURL   string `yaml:"backend_url"`
	WebsocketURL string `yaml:"websocket_url"`
	LogFile      string `yaml:"log_file"`
	DownloadDir  string `yaml:"download_dir"`

	ReconnectDelay  string `yaml:"reconnect_delay"`
	RefreshInterval string `yaml:"refresh_interval"`
	SearchDebounce  string `yaml:"search_debounce"`
	RequestTimeout  string `yaml:"request_timeout"`

	SearchMinLength int `yaml:"search_min_length"`
	SearchLimit     int `yaml:"search_limit"`
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg := Config{
		BackendURL:      raw.BackendURL,
		WebsocketURL:    raw.WebsocketURL,
		LogFile:         raw.LogFile,
		DownloadDir:     raw.DownloadDir,
		SearchMinLength: raw.SearchMinLength,
		SearchLimit:     raw.SearchLimit,
	}
	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"reconnect_delay", raw.ReconnectDelay, &cfg.ReconnectDelay},
		{"refresh_interval", raw.RefreshInterval, &cfg.RefreshInterval},
		{"search_debounce", raw.SearchDebounce, &cfg.SearchDebounce},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".attune.yaml"
	}
	return filepath.Join(home, ".attune.yaml")
}

func (c *Config) applyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = "http://127.0.0.1:8000"
	}
	if c.WebsocketURL == "" {
		c.WebsocketURL = "ws://127.0.0.1:8000/ws"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(os.TempDir(), "attune.log")
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "."
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 3 * time.Second
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 5 * time.Second
	}
	if c.SearchDebounce == 0 {
		c.SearchDebounce = 300 * time.Millisecond
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.SearchMinLength == 0 {
		c.SearchMinLength = 2
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 20
	}
}

func (c *Config) validate() error {
	if _, err := url.Parse(c.BackendURL); err != nil {
		return fmt.Errorf("config: backend_url: %w", err)
	}
	u, err := url.Parse(c.WebsocketURL)
	if err != nil {
		return fmt.Errorf("config: websocket_url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("config: websocket_url must use ws:// or wss://, got %q", c.WebsocketURL)
	}
	if c.ReconnectDelay < 0 || c.RefreshInterval < 0 || c.SearchDebounce < 0 {
		return fmt.Errorf("config: intervals must be non-negative")
	}
	return nil
}
