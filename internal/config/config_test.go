package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/feedback/pkg/feedback"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
server:
  addr: ":9000"
  heartbeatInterval: 15s
feedback:
  defaultDuration: 8s
  maxVisible:
    toast: 5
    banner: 1
  queue:
    maxSize: 20
    strategy: priority
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.HeartbeatInterval)

	fb := cfg.FeedbackConfig()
	assert.Equal(t, 8*time.Second, fb.DefaultDuration)
	assert.Equal(t, 5, fb.MaxVisible[feedback.TypeToast])
	assert.Equal(t, 1, fb.MaxVisible[feedback.TypeBanner])
	require.NotNil(t, fb.Queue)
	assert.Equal(t, 20, fb.Queue.MaxSize)
	assert.Equal(t, feedback.StrategyPriority, fb.Queue.Strategy)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, def.Server.Addr, cfg.Server.Addr)
	assert.Equal(t, def.Feedback.DefaultDuration, cfg.Feedback.DefaultDuration)
	assert.Nil(t, cfg.Feedback.Queue)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantMsg: "unknown log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantMsg: "unknown log format",
		},
		{
			name:    "unknown feedback type",
			mutate:  func(c *Config) { c.Feedback.MaxVisible = map[string]int{"hologram": 2} },
			wantMsg: "unknown feedback type",
		},
		{
			name:    "negative max visible",
			mutate:  func(c *Config) { c.Feedback.MaxVisible = map[string]int{"toast": -1} },
			wantMsg: "is negative",
		},
		{
			name:    "bad queue strategy",
			mutate:  func(c *Config) { c.Feedback.Queue = &QueueConfig{MaxSize: 5, Strategy: "lifo"} },
			wantMsg: "unknown queue strategy",
		},
		{
			name:    "negative queue size",
			mutate:  func(c *Config) { c.Feedback.Queue = &QueueConfig{MaxSize: -1, Strategy: "fifo"} },
			wantMsg: "maxSize is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFindExplicitPresent(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLogLevelMapping(t *testing.T) {
	cfg := Default()
	for name, want := range map[string]string{
		"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR",
	} {
		cfg.Log.Level = name
		assert.Equal(t, want, cfg.LogLevel().String())
	}
}
