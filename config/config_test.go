package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfig(), cfg)
	opts := cfg.AuditOptions()
	assert.Equal(t, "12", opts.MinRestHours.String())
	assert.Equal(t, "20", opts.EquityGapPercent.String())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	// GIVEN: A file setting port, rest and interval, and env overriding two
	// THEN: Env wins where set, the file elsewhere, defaults for the rest
	path := writeConfig(t, `
server:
  port: 9000
  allowed_origins: ["https://roster.example"]
audit:
  min_rest_hours: 11
sweeper:
  interval: 15m
`)
	t.Setenv(config.EnvMinRestHours, "10.5")
	t.Setenv(config.EnvDB, ":memory:")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://roster.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10.5, cfg.Audit.MinRestHours)
	assert.Equal(t, 20.0, cfg.Audit.EquityGapPercent)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 15*time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, "10.5", cfg.AuditOptions().MinRestHours.String())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"bad yaml", "server: [", nil},
		{"negative rest", "audit:\n  min_rest_hours: -1\n", nil},
		{"zero equity gap", "audit:\n  equity_gap_percent: 0\n", nil},
		{"bad format", "logging:\n  format: xml\n", nil},
		{"bad port env", "", map[string]string{config.EnvPort: "http"}},
		{"port out of range", "", map[string]string{config.EnvPort: "70000"}},
		{"bad level env", "", map[string]string{config.EnvLogLevel: "loud"}},
		{"bad interval env", "", map[string]string{config.EnvSweepInterval: "soon"}},
		{"zero interval", "sweeper:\n  interval: 0s\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DisabledSweeperSkipsIntervalCheck(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "sweeper:\n  enabled: false\n  interval: 0s\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Sweeper.Enabled)
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "debug"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1), "debug enabled")
}
