package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret matches the development fallback used when JWT_SECRET is unset.
const DefaultJWTSecret = "test"

type Config struct {
	Port string

	// Store backend: "file", "memory", "sqlite", "postgres", "s3" or "redis"
	StoreBackend string
	DataDir      string // JSON documents for the "file" backend
	DatabaseURL  string
	DatabasePath string // SQLite file path
	RedisURL     string

	// S3-compatible object storage
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	RateLimitRPS   float64
	RateLimitBurst int

	// CORS
	CORSOrigins []string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: envOrDefault("PORT", "4000"),

		StoreBackend: strings.ToLower(envOrDefault("STORE_BACKEND", "file")),
		DataDir:      envOrDefault("DATA_DIR", "data"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: envOrDefault("DATABASE_PATH", "forum.db"),
		RedisURL:     envOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3UseSSL:    os.Getenv("S3_USE_SSL") != "false",

		JWTSecret: envOrDefault("JWT_SECRET", DefaultJWTSecret),

		CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
		TrustProxy:  os.Getenv("TRUST_PROXY") == "true",

		LogLevel: envOrDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(envOrDefault("TOKEN_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(envOrDefault("ITERATIONS", "10")); err != nil {
		return nil, fmt.Errorf("parsing ITERATIONS: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return nil, fmt.Errorf("parsing RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "20")); err != nil {
		return nil, fmt.Errorf("parsing RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "file", "memory", "sqlite", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required for postgres backend")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET required for s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("ITERATIONS must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseCORSOrigins(s string) []string {
	if s == "" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			origins = append(origins, t)
		}
	}
	return origins
}
