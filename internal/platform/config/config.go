package config

import (
	"os"
	"time"
)

// Agent captures process-level configuration. Everything the promoter can
// change at runtime lives in tabletconfig instead; this is only what the
// daemon needs before it can serve its first request.
type Agent struct {
	Addr          string
	LogLevel      string
	LogFormat     string
	DBPath        string
	JWTSigningKey string
	SessionTTL    time.Duration
}

// FromEnv builds the agent config from environment variables so main stays
// lean.
func FromEnv() Agent {
	addr := os.Getenv("TOTEM_ADDR")
	if addr == "" {
		// The UI runs on the same device; never bind beyond loopback by default.
		addr = "127.0.0.1:4777"
	}

	dbPath := os.Getenv("TOTEM_DB_PATH")
	if dbPath == "" {
		dbPath = "totem.db"
	}

	jwtSigningKey := os.Getenv("TOTEM_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	sessionTTL := 30 * time.Minute
	if raw := os.Getenv("TOTEM_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sessionTTL = d
		}
	}

	return Agent{
		Addr:          addr,
		LogLevel:      os.Getenv("TOTEM_LOG_LEVEL"),
		LogFormat:     os.Getenv("TOTEM_LOG_FORMAT"),
		DBPath:        dbPath,
		JWTSigningKey: jwtSigningKey,
		SessionTTL:    sessionTTL,
	}
}
