package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/escaperoom")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12*time.Hour, cfg.CallRequiredWindow)
	assert.Equal(t, "escaperoom.events", cfg.AMQPExchange)
	assert.Equal(t, time.UTC.String(), cfg.Location.String())
	assert.False(t, cfg.IsProd())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/escaperoom")
	t.Setenv("TIMEZONE", "Asia/Almaty")
	t.Setenv("CALL_REQUIRED_WINDOW", "3h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Almaty", cfg.Location.String())
	assert.Equal(t, 3*time.Hour, cfg.CallRequiredWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnvRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"default secret in prod", map[string]string{"APP_ENV": "prod"}},
		{"unknown timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"zero jwt ttl", map[string]string{"JWT_TTL": "0s"}},
		{"zero call window", map[string]string{"CALL_REQUIRED_WINDOW": "0s"}},
		{"negative call window", map[string]string{"CALL_REQUIRED_WINDOW": "-1h"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name != "missing database url" {
				t.Setenv("DATABASE_URL", "postgres://localhost/escaperoom")
			} else {
				t.Setenv("DATABASE_URL", "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestProdWithSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/escaperoom")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
}
