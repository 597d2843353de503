// Package config loads runtime configuration for the payroll binaries.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port           int
	DBPath         string
	RulesPath      string // empty means the embedded default rule book
	LogLevel       slog.Level
	AllowedOrigins []string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. Variables are prefixed with PAYROLL_ (PAYROLL_PORT, ...).
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PAYROLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "payroll.db")
	v.SetDefault("rules_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", "http://localhost:5173,http://localhost:8080")

	cfg := &Config{
		Port:      v.GetInt("port"),
		DBPath:    v.GetString("db_path"),
		RulesPath: v.GetString("rules_path"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PAYROLL_PORT %d", cfg.Port)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("PAYROLL_DB_PATH must not be empty")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_LOG_LEVEL: %w", err)
	}

	for _, origin := range strings.Split(v.GetString("allowed_origins"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}
