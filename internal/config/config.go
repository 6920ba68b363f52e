package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBPath     string
	DBDebug    bool

	JWTSecret   []byte
	JWTTTL      time.Duration
	AdminAPIKey string

	MaxToppingAmount    int
	OrderNumberAttempts int

	UploadDir    string
	ContactInbox string
	RateLimitMax int
	LogLevel     slog.Level
}

// Load reads .env (if present) and then the process environment. Malformed
// values that have no safe default are reported as errors.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using system environment")
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "pizza"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "./pizza.db"),
		DBDebug:    getEnv("DB_DEBUG", "false") == "true",

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		MaxToppingAmount:    getEnvInt("MAX_TOPPING_AMOUNT", 3),
		OrderNumberAttempts: getEnvInt("ORDER_NUMBER_ATTEMPTS", 2),

		UploadDir:    getEnv("UPLOAD_DIR", "./public/uploads/builders"),
		ContactInbox: getEnv("CONTACT_INBOX", "orders@pizza.local"),
		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 20),
		LogLevel:     parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL %q: must be a positive duration such as 24h", os.Getenv("JWT_TTL"))
	}
	cfg.JWTTTL = ttl

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET not set. Generating a random key; tokens will be invalid after restart. SET JWT_SECRET IN PRODUCTION!")
		cfg.JWTSecret = randomKey(32)
	} else {
		cfg.JWTSecret = []byte(secret)
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: use postgres or sqlite", cfg.DBDriver)
	}
	if cfg.MaxToppingAmount < 1 {
		cfg.MaxToppingAmount = 1
	}
	if cfg.OrderNumberAttempts < 1 {
		cfg.OrderNumberAttempts = 1
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer environment variable, using default", "key", key, "value", raw)
		return defaultValue
	}
	return n
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func randomKey(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return []byte("fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10))
	}
	return []byte(hex.EncodeToString(b))
}
