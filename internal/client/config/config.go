package config

import "time"

// Config holds runtime settings for the docuchat CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend REST API.
//   - RequestTimeout: per-request timeout for outbound calls.
//   - DatabaseDSN: path of the local SQLite credential database.
//   - UploadConcurrency: how many document uploads may run in parallel.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	DatabaseDSN        string
	UploadConcurrency  int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.DatabaseDSN = "docuchat.db"
	c.UploadConcurrency = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file if present), a JSON file
// (if provided), and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
