package config

import "time"

// Config holds runtime settings for the feedback portal client.
type Config struct {
	APIBaseURL          string
	HealthAddr          string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	SessionDB           string
	DownloadDir         string
	StatusTTL           time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.HealthAddr = "127.0.0.1:50052"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.SessionDB = "session.db"
	c.DownloadDir = "downloads"
	c.StatusTTL = 3 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config from defaults, then the environment
// (seeded from .env), a JSON file and command-line flags. Later sources
// take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
