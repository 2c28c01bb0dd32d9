package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parseMap(map[string]string{"JWT_SECRET": "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.FrontendURLs)
	assert.Equal(t, "jobboard:live", cfg.RedisChannel)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "@every 1h", cfg.DemotionSweepSpec)
	assert.True(t, cfg.SweepEnabled())
	assert.Equal(t, 16, cfg.LiveSendBuffer)
	assert.True(t, cfg.RunMigrationsOnStart)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 5, cfg.DBMaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parseMap(map[string]string{
		"JWT_SECRET":          "s3cret",
		"PORT":                "9090",
		"FRONTEND_URL":        "https://jobs.example.com,https://admin.example.com",
		"REDIS_URL":           "redis://localhost:6379/0",
		"DEMOTION_SWEEP_SPEC": "off",
		"LOG_LEVEL":           "debug",
	})

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://jobs.example.com", "https://admin.example.com"}, cfg.FrontendURLs)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.False(t, cfg.SweepEnabled())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing jwt secret", map[string]string{}},
		{"bad port", map[string]string{"JWT_SECRET": "x", "PORT": "70000"}},
		{"non numeric port", map[string]string{"JWT_SECRET": "x", "PORT": "http"}},
		{"zero send buffer", map[string]string{"JWT_SECRET": "x", "LIVE_SEND_BUFFER": "0"}},
		{"idle above open", map[string]string{"JWT_SECRET": "x", "DB_MAX_IDLE_CONNS": "30"}},
		{"bad sweep spec", map[string]string{"JWT_SECRET": "x", "DEMOTION_SWEEP_SPEC": "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMap(tt.vars)
			assert.Error(t, err)
		})
	}
}
