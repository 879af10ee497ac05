package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"deliciasmz/storage"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	StorageMode storage.Mode

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeminiAPIKey string

	JWTSecret           string
	AdminSecret         string
	RequireConfirmation bool

	RequestTimeout time.Duration
	UploadDir      string
	LogLevel       string

	RateLimit float64
	RateBurst int
}

// Load reads .env when present, then the environment. Missing values fall
// back to development defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	mode, err := storage.ParseMode(os.Getenv("STORAGE_MODE"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:                getenv("PORT", "10000"),
		StorageMode:         mode,
		MongoURI:            os.Getenv("MONGODB_URI"),
		MongoDatabase:       getenv("MONGODB_DATABASE", "deliciasmz"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		GeminiAPIKey:        getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminSecret:         os.Getenv("ADMIN_SECRET"),
		RequireConfirmation: true,
		RequestTimeout:      10 * time.Second,
		UploadDir:           getenv("UPLOAD_DIR", "static/uploads"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		RateLimit:           5,
		RateBurst:           10,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
	}
	if v := os.Getenv("REQUIRE_EMAIL_CONFIRMATION"); v != "" {
		if cfg.RequireConfirmation, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("REQUIRE_EMAIL_CONFIRMATION: %w", err)
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if cfg.RequestTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if cfg.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT: %w", err)
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if cfg.RateBurst, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("RATE_BURST: %w", err)
		}
	}
	return cfg, nil
}

// DevSecret reports whether no JWT secret was configured.
func (c Config) DevSecret() bool {
	return strings.TrimSpace(c.JWTSecret) == ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
