package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(mapEnv(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "eldercare", cfg.MongoDatabase)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5.0, cfg.LoginRatePerSecond)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(mapEnv(map[string]string{
		"PORT":                  "9000",
		"ENVIRONMENT":           "production",
		"STORE_DRIVER":          "postgres",
		"DATABASE_URL":          "postgres://localhost/eldercare",
		"JWT_SECRET":            "s3cret",
		"TOKEN_TTL":             "1h",
		"LOGIN_RATE_PER_SECOND": "0.5",
		"LOGIN_BURST":           "3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 0.5, cfg.LoginRatePerSecond)
	assert.Equal(t, 3, cfg.LoginBurst)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"secret required outside development", map[string]string{"ENVIRONMENT": "production"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}},
		{"mongo without uri", map[string]string{"STORE_DRIVER": "mongo"}},
		{"bad ttl", map[string]string{"TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1m"}},
		{"bad rate", map[string]string{"LOGIN_RATE_PER_SECOND": "fast"}},
		{"bad burst", map[string]string{"LOGIN_BURST": "1.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(mapEnv(tt.env))
			assert.Error(t, err)
		})
	}
}
