package config

import "github.com/dmitrijs2005/feedbackportal/internal/envx"

const (
	EnvAPIURL       = "FEEDBACK_API_URL"
	EnvHealthAddr   = "FEEDBACK_HEALTH_ADDR"
	EnvSessionDB    = "FEEDBACK_SESSION_DB"
	EnvDownloadDir  = "FEEDBACK_DOWNLOAD_DIR"
	EnvStatusTTL    = "FEEDBACK_STATUS_TTL"
	EnvTimeout      = "FEEDBACK_REQUEST_TIMEOUT"
	EnvLogLevel     = "FEEDBACK_LOG_LEVEL"
	EnvClientConfig = "FEEDBACK_CLIENT_CONFIG"
)

// parseEnv overlays cfg with FEEDBACK_* variables. A .env file in the
// working directory is loaded first; malformed values panic.
func parseEnv(cfg *Config) {
	if err := envx.LoadDotEnv(); err != nil {
		panic(err)
	}

	envx.String(&cfg.APIBaseURL, EnvAPIURL)
	envx.String(&cfg.HealthAddr, EnvHealthAddr)
	envx.String(&cfg.SessionDB, EnvSessionDB)
	envx.String(&cfg.DownloadDir, EnvDownloadDir)
	envx.String(&cfg.LogLevel, EnvLogLevel)

	if err := envx.Duration(&cfg.StatusTTL, EnvStatusTTL); err != nil {
		panic(err)
	}
	if err := envx.Duration(&cfg.RequestTimeout, EnvTimeout); err != nil {
		panic(err)
	}
}
