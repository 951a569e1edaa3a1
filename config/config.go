package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration: sqlite (default) or postgres
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (rate limiting); empty disables Redis entirely
	RedisURL string

	// JWT configuration
	JWTSecret string

	// Recommendation configuration
	DataDir   string
	ResultCap int

	// CORS
	AllowedOrigins []string
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "chefbot.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "chefbot"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		RedisURL:   os.Getenv("REDIS_URL"),
		JWTSecret:  getEnv("JWT_SECRET", placeholderSecret),
		DataDir:    getEnv("DATA_DIR", "data"),
	}

	capStr := getEnv("RESULT_CAP", "10")
	resultCap, err := strconv.Atoi(capStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RESULT_CAP %q: %w", capStr, err)
	}
	cfg.ResultCap = resultCap

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
