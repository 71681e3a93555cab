package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	PostgresDSN    string
	RedisAddr      string
	MongoURI       string
	SessionSecret  string
	SessionTTL     time.Duration
	UploadDir      string
	MaxUploadBytes int64
	OTLPEndpoint   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	// the session cookie HMAC must never be keyed on an empty string
	if os.Getenv("SESSION_SECRET") == "" {
		return nil, errors.New("SESSION_SECRET must be set")
	}

	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:       os.Getenv("MONGO_URI"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 5<<20),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return fallback
}
