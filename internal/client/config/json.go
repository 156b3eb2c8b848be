package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/feedbackportal/internal/flagx"
	"github.com/dmitrijs2005/feedbackportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept "3s" style strings or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	HealthAddr          string         `json:"health_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	SessionDB           string         `json:"session_db"`
	DownloadDir         string         `json:"download_dir"`
	StatusTTL           timex.Duration `json:"status_ttl"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// -c/-config (or FEEDBACK_CLIENT_CONFIG). Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigPath(EnvClientConfig)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.HealthAddr, jc.HealthAddr)
	setString(&cfg.SessionDB, jc.SessionDB)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatusTTL.Duration > 0 {
		cfg.StatusTTL = jc.StatusTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
