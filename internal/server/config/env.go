package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; it never overrides
// variables already set in the process environment.
//
// Recognized variables:
//
//	ADDRESS       HTTP bind address (e.g., ":3000")
//	DATABASE_URL  PostgreSQL DSN
//	JWT_SECRET    HMAC secret for signing tokens
//	TOKEN_TTL     access token lifetime, Go duration string (e.g., "1h")
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
}
