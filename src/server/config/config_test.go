package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "DATA_DIR", "JWT_SECRET", "TOKEN_TTL",
		"ITERATIONS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("ITERATIONS", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "mongo"}},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"s3 without bucket", map[string]string{"STORE_BACKEND": "s3", "S3_ENDPOINT": "localhost:9000", "S3_BUCKET": ""}},
		{"bad ttl", map[string]string{"TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1h"}},
		{"bad cost", map[string]string{"ITERATIONS": "ten"}},
		{"cost below bcrypt minimum", map[string]string{"ITERATIONS": "3"}},
		{"cost above bcrypt maximum", map[string]string{"ITERATIONS": "32"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", "")
			t.Setenv("TOKEN_TTL", "")
			t.Setenv("ITERATIONS", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadBcryptCostBounds(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("TOKEN_TTL", "")

	t.Setenv("ITERATIONS", "4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BcryptCost)

	t.Setenv("ITERATIONS", "31")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 31, cfg.BcryptCost)
}

func TestLoadTrustProxy(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ITERATIONS", "")

	t.Setenv("TRUST_PROXY", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TrustProxy)

	t.Setenv("TRUST_PROXY", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxy)
}
