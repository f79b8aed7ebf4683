package main

import (
	"fmt"
	"os"
	"path/filepath"

	"readmark/internal/config"
	"readmark/internal/util"
	"readmark/pkg/client"
	"readmark/pkg/session"
)

// app bundles the loaded config, session store, and API client for commands.
type app struct {
	cfg      config.FileConfig
	sessions *session.FileStore
	api      *client.Client
}

func newApp() (*app, error) {
	path := configPath
	if path == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger := util.InitLogger(cfg.LogLevel)

	sessions, err := session.NewFileStore(cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Please login again.")
		}),
	}
	timeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}
	if cfg.ChunkSizeBytes > 0 {
		opts = append(opts, client.WithChunkSize(cfg.ChunkSizeBytes))
	}

	return &app{
		cfg:      cfg,
		sessions: sessions,
		api:      client.New(cfg.BaseURL, sessions, opts...),
	}, nil
}
