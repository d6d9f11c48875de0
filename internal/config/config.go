package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr              string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	JWTSecret             string
	JWTIssuer             string
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	LoginEmailDomain      string
	PingMessage           string
	StatusRefreshEnabled  bool
	StatusRefreshInterval time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getenv("DATABASE_URL", ""),
		RedisAddr:             getenv("REDIS_ADDR", ""),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		JWTSecret:             getenv("JWT_SECRET", ""),
		JWTIssuer:             getenv("JWT_ISSUER", "clubpulse"),
		AccessTokenTTL:        getenvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:       getenvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		LoginEmailDomain:      getenv("LOGIN_EMAIL_DOMAIN", "attendance.local"),
		PingMessage:           getenv("PING_MESSAGE", "ping"),
		StatusRefreshEnabled:  getenvBool("STATUS_REFRESH_ENABLED", true),
		StatusRefreshInterval: getenvDuration("STATUS_REFRESH_INTERVAL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
