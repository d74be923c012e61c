package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "postgres://localhost/nano")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "nano_social", cfg.MongoDatabase)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRequiresStores(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_CONN_STR")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			PostgresURL:     "postgres://localhost/nano",
			MongoURI:        "mongodb://localhost:27017",
			Env:             "development",
			JWTSecret:       devJWTSecret,
			NotifyWorkers:   1,
			NotifyQueueSize: 1,
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Env = "production"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.NotifyWorkers = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.MongoURI = ""
	assert.ErrorContains(t, cfg.Validate(), "MONGO_URI")
}
