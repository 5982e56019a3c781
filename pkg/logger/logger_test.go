package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-feedback-api/pkg/config"
)

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	cfg := &config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1},
	}

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("course binned")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "course binned")
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "loud"}}

	l, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
}
