// Package config loads runtime configuration for the feedback portal client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. FEEDBACK_* environment variables, seeded from an optional .env file.
//  3. Optional JSON file selected with -c / -config (or FEEDBACK_CLIENT_CONFIG).
//  4. Command-line flags -a -g -i -t -d -o.
//
// JSON example:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "health_addr": "127.0.0.1:50052",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "session_db": "session.db",
//	  "download_dir": "downloads",
//	  "status_ttl": "3s"
//	}
package config
