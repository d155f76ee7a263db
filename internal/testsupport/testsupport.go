// Package testsupport builds throwaway configurations for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"dubboard/internal/config"
)

// Option adjusts a test configuration.
type Option func(*config.Config)

// WithSeed sets the dashboard seed.
func WithSeed(seed int64) Option {
	return func(cfg *config.Config) { cfg.Dashboard.Seed = seed }
}

// WithNtfyTopic points notifications at the given endpoint.
func WithNtfyTopic(topic string) Option {
	return func(cfg *config.Config) { cfg.Notifications.NtfyTopic = topic }
}

// NewConfig returns a default configuration rooted in a per-test temp
// directory, with every working directory created.
func NewConfig(t *testing.T, opts ...Option) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "log")
	cfg.Pipeline.HistoryDB = filepath.Join(base, "log", "history.db")
	cfg.Pipeline.LockFile = filepath.Join(base, "log", "pipeline.lock")
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}
