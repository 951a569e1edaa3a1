package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const placeholderSecret = "change-me-in-production"

// ValidateConfig checks that the configuration is usable in the current
// environment.
func ValidateConfig(cfg *Config) error {
	var errs []string

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "required when DB_DRIVER is sqlite"}.Error())
		}
	case "postgres":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "required when DB_DRIVER is postgres"}.Error())
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "required when DB_DRIVER is postgres"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if cfg.ResultCap <= 0 {
		errs = append(errs, ValidationError{"RESULT_CAP", "must be positive"}.Error())
	}
	if cfg.DataDir == "" {
		errs = append(errs, ValidationError{"DATA_DIR", "must not be empty"}.Error())
	}

	if IsProduction() && (cfg.JWTSecret == "" || cfg.JWTSecret == placeholderSecret) {
		errs = append(errs, ValidationError{"JWT_SECRET", "must be set in production"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
