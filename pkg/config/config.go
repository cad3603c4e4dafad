package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	JWTSecret      string
	AccessTokenTTL time.Duration

	PostgresHost string
	PostgresPort int
	PostgresUser string
	PostgresPass string
	PostgresDB   string

	RedisAddr    string
	KafkaBrokers []string

	DefaultWalletBalance int64
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnvInt("HTTP_PORT", 8082),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL: time.Duration(getEnvInt("JWT_ACCESS_TTL_MIN", 30)) * time.Minute,

		PostgresHost: getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser: getEnv("POSTGRES_USER", "minikart"),
		PostgresPass: getEnv("POSTGRES_PASSWORD", "minikartpassword"),
		PostgresDB:   getEnv("POSTGRES_DB", "minikart_db"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnvList("KAFKA_BROKERS", nil),

		DefaultWalletBalance: int64(getEnvInt("DEFAULT_WALLET_BALANCE", 500)),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
