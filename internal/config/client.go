package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL is where the reference server listens by default
	DefaultServerURL = "http://localhost:9000"
	// DefaultTimeout bounds every API request
	DefaultTimeout = 30 * time.Second
)

// Client is the terminal client's configuration
type Client struct {
	ServerURL       string        `yaml:"server_url"`
	Timeout         time.Duration `yaml:"timeout"`
	LogLevel        string        `yaml:"log_level"`
	CredentialsPath string        `yaml:"credentials_path,omitempty"`
	LogPath         string        `yaml:"log_path,omitempty"`
}

// DefaultClient returns the default client configuration
func DefaultClient() *Client {
	return &Client{
		ServerURL: DefaultServerURL,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
	}
}

// Dir returns the per-user directory (~/.articles)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".articles"), nil
}

// ClientPath returns the client config file path (~/.articles/config.yaml)
func ClientPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadClient reads the client config from path. A missing file yields the
// defaults; environment variables override whatever the file says.
func LoadClient(path string) (*Client, error) {
	cfg := DefaultClient()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.ServerURL = envStr("ARTICLES_SERVER_URL", cfg.ServerURL)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.Timeout = envDuration("ARTICLES_TIMEOUT", cfg.Timeout)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// SaveClient writes cfg to path as YAML
func SaveClient(path string, cfg *Client) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// APIBaseURL returns the base URL API paths are resolved against
func (c *Client) APIBaseURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/api"
}

func (c *Client) validate() error {
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
