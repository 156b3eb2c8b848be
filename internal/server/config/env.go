package config

import "github.com/dmitrijs2005/feedbackportal/internal/envx"

const (
	EnvHTTPAddr     = "PORTAL_HTTP_ADDR"
	EnvHealthAddr   = "PORTAL_HEALTH_ADDR"
	EnvDatabaseDSN  = "DATABASE_DSN"
	EnvSecretKey    = "PORTAL_SECRET_KEY"
	EnvTokenTTL     = "PORTAL_ACCESS_TOKEN_TTL"
	EnvLogFormat    = "PORTAL_LOG_FORMAT"
	EnvLogLevel     = "PORTAL_LOG_LEVEL"
	EnvS3User       = "S3_ROOT_USER"
	EnvS3Password   = "S3_ROOT_PASSWORD"
	EnvS3Bucket     = "S3_BUCKET"
	EnvS3Region     = "S3_REGION"
	EnvS3Endpoint   = "S3_BASE_ENDPOINT"
	EnvArchivePDF   = "PORTAL_ARCHIVE_PDF"
	EnvCORSOrigins  = "PORTAL_CORS_ORIGINS"
	EnvLoginRate    = "PORTAL_LOGIN_RATE"
	EnvLoginBurst   = "PORTAL_LOGIN_BURST"
	EnvServerConfig = "PORTAL_CONFIG"
)

// parseEnv overlays cfg with environment variables after loading .env.
// Malformed values panic.
func parseEnv(cfg *Config) {
	if err := envx.LoadDotEnv(); err != nil {
		panic(err)
	}

	envx.String(&cfg.HTTPAddr, EnvHTTPAddr)
	envx.String(&cfg.HealthAddr, EnvHealthAddr)
	envx.String(&cfg.DatabaseDSN, EnvDatabaseDSN)
	envx.String(&cfg.SecretKey, EnvSecretKey)
	envx.String(&cfg.LogFormat, EnvLogFormat)
	envx.String(&cfg.LogLevel, EnvLogLevel)
	envx.String(&cfg.S3RootUser, EnvS3User)
	envx.String(&cfg.S3RootPassword, EnvS3Password)
	envx.String(&cfg.S3Bucket, EnvS3Bucket)
	envx.String(&cfg.S3Region, EnvS3Region)
	envx.String(&cfg.S3BaseEndpoint, EnvS3Endpoint)
	envx.List(&cfg.CORSOrigins, EnvCORSOrigins)

	for _, err := range []error{
		envx.Duration(&cfg.AccessTokenValidityDuration, EnvTokenTTL),
		envx.Bool(&cfg.ArchivePDF, EnvArchivePDF),
		envx.Int(&cfg.LoginRatePerSecond, EnvLoginRate),
		envx.Int(&cfg.LoginBurst, EnvLoginBurst),
	} {
		if err != nil {
			panic(err)
		}
	}
}
