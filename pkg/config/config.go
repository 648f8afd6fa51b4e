// Package config loads the CLI configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-authform/pkg/client"
)

// Config is the on-disk configuration.
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	StorePath     string        `yaml:"store_path"`
	CredentialTTL time.Duration `yaml:"credential_ttl"`
	LogLevel      string        `yaml:"log_level"`
	ContractCheck *bool         `yaml:"contract_check"`
}

// Default returns the built-in configuration.
func Default() Config {
	check := true
	return Config{
		BaseURL:       client.DefaultBaseURL,
		Timeout:       10 * time.Second,
		StorePath:     "authform.db",
		LogLevel:      "info",
		ContractCheck: &check,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url %q must be an http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.CredentialTTL < 0 {
		return fmt.Errorf("config: credential_ttl must not be negative, got %s", c.CredentialTTL)
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return errors.New("config: store_path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q", c.LogLevel)
	}
	return nil
}

// ContractEnabled reports whether request bodies are checked against the API
// description before sending.
func (c Config) ContractEnabled() bool {
	return c.ContractCheck == nil || *c.ContractCheck
}
