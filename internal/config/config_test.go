package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("baseURL %q", cfg.BaseURL)
	}
	if cfg.TokenPath == "" {
		t.Fatal("expected a default token path")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
baseURL: https://reading.example.com
logLevel: debug
requestTimeout: 45s
chunkSizeBytes: 1048576
tokenPath: /tmp/readmark-test-token
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://reading.example.com" {
		t.Fatalf("baseURL %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("logLevel %q", cfg.LogLevel)
	}
	if cfg.ChunkSizeBytes != 1048576 {
		t.Fatalf("chunkSizeBytes %d", cfg.ChunkSizeBytes)
	}
	timeout, err := ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if timeout != 45*time.Second {
		t.Fatalf("timeout %v", timeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("baseURL: http://from-file:8000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("READMARK_BASE_URL", "http://from-env:9000")
	t.Setenv("READMARK_CHUNK_SIZE_BYTES", "2048")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://from-env:9000" {
		t.Fatalf("baseURL %q, env should win", cfg.BaseURL)
	}
	if cfg.ChunkSizeBytes != 2048 {
		t.Fatalf("chunkSizeBytes %d", cfg.ChunkSizeBytes)
	}
}

func TestInvalidBaseURLRejected(t *testing.T) {
	t.Setenv("READMARK_BASE_URL", "not a url")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid baseURL")
	}
}

func TestInvalidTimeoutRejected(t *testing.T) {
	if _, err := ParseRequestTimeout("soon"); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
	if _, err := ParseRequestTimeout("-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
