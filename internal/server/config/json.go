package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/flagx"
	"github.com/dmitrijs2005/feedbackportal/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "30m" as well as integer nanoseconds. Zero values leave the
// current setting untouched.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	HealthAddr                  string         `json:"health_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ArchivePDF                  *bool          `json:"archive_pdf"`
	CORSOrigins                 []string       `json:"cors_origins"`
	LoginRatePerSecond          int            `json:"login_rate_per_second"`
	LoginBurst                  int            `json:"login_burst"`
	MaxBodyBytes                int64          `json:"max_body_bytes"`
	TokenCacheTTL               timex.Duration `json:"token_cache_ttl"`
	DBPingInterval              timex.Duration `json:"db_ping_interval"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config (or PORTAL_CONFIG) into
// config. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigPath(EnvServerConfig)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, v timex.Duration) {
		if v.Duration != 0 {
			*dst = v.Duration
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.HealthAddr, c.HealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ArchivePDF != nil {
		config.ArchivePDF = *c.ArchivePDF
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	setInt(&config.LoginRatePerSecond, c.LoginRatePerSecond)
	setInt(&config.LoginBurst, c.LoginBurst)
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	setDuration(&config.TokenCacheTTL, c.TokenCacheTTL)
	setDuration(&config.DBPingInterval, c.DBPingInterval)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}
