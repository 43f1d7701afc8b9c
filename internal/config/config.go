package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultPostCacheTTL = 5 * time.Minute

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	GinMode          string
	AppEnv           string
	DatabaseDriver   string
	DatabasePath     string
	DatabaseURL      string
	DatabaseLogLevel string
	RedisAddr        string
	RedisPassword    string
	PostCacheTTL     time.Duration
	NATSURL          string
	JWTSecret        string
	AllowOrigins     []string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := env("PORT", "3001")

	listenAddr := env("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	appEnv := env("APP_ENV", "development")

	databasePath := env("DATABASE_PATH", "blog.db")
	if appEnv == "test" {
		databasePath = env("TEST_DATABASE_PATH", "blog_test.db")
	}

	databaseURL := env("DATABASE_URL", "")
	if databaseURL == "" && strings.TrimSpace(os.Getenv("DB_HOST")) != "" {
		databaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			env("DB_HOST", "localhost"),
			env("DB_USER", "postgres"),
			env("DB_PASSWORD", ""),
			env("DB_NAME", "blog"),
			env("DB_PORT", "5432"),
		)
	}

	cacheTTL := defaultPostCacheTTL
	if raw := env("POST_CACHE_TTL", ""); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			cacheTTL = parsed
		}
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		GinMode:          env("GIN_MODE", "release"),
		AppEnv:           appEnv,
		DatabaseDriver:   strings.ToLower(env("DATABASE_DRIVER", "sqlite")),
		DatabasePath:     databasePath,
		DatabaseURL:      databaseURL,
		DatabaseLogLevel: strings.ToLower(env("DATABASE_LOG_LEVEL", "warn")),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPassword:    env("REDIS_PASSWORD", ""),
		PostCacheTTL:     cacheTTL,
		NATSURL:          env("NATS_URL", ""),
		JWTSecret:        env("JWT_SECRET", ""),
		AllowOrigins:     splitList(env("CORS_ALLOW_ORIGINS", "*")),
	}
}

// DSN returns the connection string for the configured database driver.
func (c AppConfig) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
