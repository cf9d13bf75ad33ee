// Package config loads client configuration from the environment, with an
// optional .env file for development setups.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the CLI needs before its first request.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL: getenv("SHOPCTL_BASE_URL", "http://localhost:8000"),
		Timeout: 30 * time.Second,
	}
	if v := os.Getenv("SHOPCTL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
