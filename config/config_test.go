package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "chefbot.db", cfg.SQLitePath)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 10, cfg.ResultCap)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("RESULT_CAP", "25")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 25, cfg.ResultCap)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigInvalidResultCap(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("RESULT_CAP", "plenty")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("ENV", "test")

	base := func() *Config {
		return &Config{
			DBDriver:   "sqlite",
			SQLitePath: "chefbot.db",
			DataDir:    "data",
			ResultCap:  10,
			JWTSecret:  "secret",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(base()))
	})

	t.Run("unsupported driver", func(t *testing.T) {
		cfg := base()
		cfg.DBDriver = "oracle"
		assert.Error(t, ValidateConfig(cfg))
	})

	t.Run("postgres needs host and name", func(t *testing.T) {
		cfg := base()
		cfg.DBDriver = "postgres"
		cfg.DBHost = ""
		cfg.DBName = ""
		assert.Error(t, ValidateConfig(cfg))
	})

	t.Run("non-positive result cap", func(t *testing.T) {
		cfg := base()
		cfg.ResultCap = 0
		assert.Error(t, ValidateConfig(cfg))
	})

	t.Run("empty data dir", func(t *testing.T) {
		cfg := base()
		cfg.DataDir = ""
		assert.Error(t, ValidateConfig(cfg))
	})

	t.Run("placeholder secret rejected in production", func(t *testing.T) {
		t.Setenv("ENV", "production")
		cfg := base()
		cfg.JWTSecret = placeholderSecret
		assert.Error(t, ValidateConfig(cfg))

		cfg.JWTSecret = "real-secret"
		assert.NoError(t, ValidateConfig(cfg))
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())
}
