// Package config loads the CLI configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	BaseURL        string `yaml:"baseURL"`
	LogLevel       string `yaml:"logLevel"`
	RequestTimeout string `yaml:"requestTimeout"`
	ChunkSizeBytes int64  `yaml:"chunkSizeBytes"`
	TokenPath      string `yaml:"tokenPath"`
	ExportFetchers int    `yaml:"exportFetchers"`
}

// Default returns the configuration used when no config file exists.
func Default() FileConfig {
	return FileConfig{
		BaseURL:  "http://localhost:8000",
		LogLevel: "warn",
	}
}

// DefaultDir is the directory holding the config file and the token file.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "readmark"), nil
}

// Load reads config from path. A missing file is not an error: defaults plus
// env overrides apply.
func Load(path string) (FileConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if v := os.Getenv("READMARK_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("READMARK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("READMARK_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("READMARK_CHUNK_SIZE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.ChunkSizeBytes = n
		}
	}
	if v := os.Getenv("READMARK_TOKEN_PATH"); v != "" {
		cfg.TokenPath = strings.TrimSpace(v)
	}
	if cfg.TokenPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return cfg, err
		}
		cfg.TokenPath = filepath.Join(dir, "token")
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return errors.New("config: baseURL is required (set in config.yaml or READMARK_BASE_URL)")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: baseURL %q is not a valid absolute URL", cfg.BaseURL)
	}
	if cfg.ChunkSizeBytes < 0 {
		return errors.New("config: chunkSizeBytes must be >= 0")
	}
	if cfg.ExportFetchers < 0 {
		return errors.New("config: exportFetchers must be >= 0")
	}
	return nil
}

// ParseRequestTimeout parses the optional request timeout duration string.
func ParseRequestTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	if dur < 0 {
		return 0, errors.New("requestTimeout must be >= 0")
	}
	return dur, nil
}
