package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from environment variables,
// loading a local .env file first when one exists. A missing .env is not
// an error.
//
// Recognized variables:
//
//	DOCUCHAT_SERVER_ADDR        base URL of the backend
//	DOCUCHAT_REQUEST_TIMEOUT    per-request timeout, e.g. "30s"
//	DOCUCHAT_DB_DSN             path of the local credential database
//	DOCUCHAT_UPLOAD_CONCURRENCY parallel upload limit
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("DOCUCHAT_SERVER_ADDR"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("DOCUCHAT_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("DOCUCHAT_DB_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("DOCUCHAT_UPLOAD_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UploadConcurrency = n
		}
	}
}
