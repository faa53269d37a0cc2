package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	PORT    string
	APP_ENV string

	BACKEND_API_URL string

	ADMIN_PWD      string
	JWT_SECRET_KEY string

	DB_URL         string
	REDIS_ADDR     string
	REDIS_PASSWORD string

	STAGING_DIR string
	CORS_ORIGIN string
	LOG_LEVEL   string
)

// LoadDotEnv copies .env into the process environment without overriding
// what is already set. It runs before the logger exists.
func LoadDotEnv() error {
	return godotenv.Load()
}

// LoadEnv reads the process environment. The backend URL is the only hard
// requirement; the admin secrets are checked at login time so the public
// pages still work without them.
func LoadEnv() {
	PORT = getEnv("PORT", "8080")
	APP_ENV = getEnv("APP_ENV", "development")

	BACKEND_API_URL = mustEnv("BACKEND_API_URL", "NEXT_PUBLIC_BACKEND_API_URL", "EC2_API_URL")

	ADMIN_PWD = getEnv("ADMIN_PWD", "")
	JWT_SECRET_KEY = firstEnv("JWT_SECRET_KEY", "JWT_SECRET")

	DB_URL = getEnv("DB_URL", "portfolio.db")
	REDIS_ADDR = getEnv("REDIS_ADDR", "")
	REDIS_PASSWORD = getEnv("REDIS_PASSWORD", "")

	STAGING_DIR = getEnv("STAGING_DIR", "")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
}

func IsProduction() bool {
	return strings.EqualFold(APP_ENV, "production")
}

// mustEnv returns the first non-empty key and exits when none is set.
func mustEnv(keys ...string) string {
	if v := firstEnv(keys...); v != "" {
		return v
	}
	zap.L().Fatal("missing required environment variable", zap.Strings("keys", keys))
	return ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
