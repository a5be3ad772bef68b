// Package config reads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/models"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// StorageConfig selects and locates the batch store.
type StorageConfig struct {
	Driver      string // "sqlite" or "postgres"
	DBPath      string
	DatabaseURL string
}

// DraftConfig locates the draft store. An empty RedisURL keeps drafts in memory.
type DraftConfig struct {
	RedisURL string
	TTL      time.Duration
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// CalculatorConfig holds pricing and upload defaults.
type CalculatorConfig struct {
	MaxUploadMB   int
	DefaultPrice  float64
	DefaultPayers []string
}

// ArchiveConfig enables raw upload archiving to S3 when Bucket is set.
type ArchiveConfig struct {
	Bucket string
	Prefix string
}

// Config is the top-level configuration.
type Config struct {
	Port        int
	StaticPath  string
	CORSOrigins []string

	Logging    LoggingConfig
	Storage    StorageConfig
	Drafts     DraftConfig
	Auth       AuthConfig
	Calculator CalculatorConfig
	Archive    ArchiveConfig
}

// Load reads an optional .env file, then builds the configuration from the
// environment. Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv loads configuration from environment with defaults.
func FromEnv() Config {
	return Config{
		Port:        parseInt(getEnv("PORT", "8080"), 8080),
		StaticPath:  getEnv("STATIC_PATH", "./static"),
		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "*")),

		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
			MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
			MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
			Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
			DBPath:      getEnv("DB_PATH", "./data/pagetally.db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Drafts: DraftConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      parseDuration(getEnv("DRAFT_TTL", "720h"), 30*24*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenDuration: parseDuration(getEnv("TOKEN_DURATION", "24h"), 24*time.Hour),
		},
		Calculator: CalculatorConfig{
			MaxUploadMB:   parseInt(getEnv("MAX_UPLOAD_MB", "50"), 50),
			DefaultPrice:  parseFloat(getEnv("DEFAULT_PRICE_PER_PAGE", ""), models.DefaultPricePerPage),
			DefaultPayers: parseList(getEnv("DEFAULT_PAYERS", "")),
		},
		Archive: ArchiveConfig{
			Bucket: getEnv("ARCHIVE_BUCKET", ""),
			Prefix: getEnv("ARCHIVE_PREFIX", "uploads"),
		},
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Calculator.DefaultPrice < 0 {
		return errors.New("DEFAULT_PRICE_PER_PAGE cannot be negative")
	}
	var payers []models.PaymentShare
	for _, name := range c.Calculator.DefaultPayers {
		if err := calculator.ValidatePayerName(payers, name); err != nil {
			return fmt.Errorf("DEFAULT_PAYERS entry %q: %w", name, err)
		}
		payers = append(payers, models.PaymentShare{PersonName: calculator.NormalizeName(name)})
	}
	return nil
}

// MaxUploadBytes is the per-file upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Calculator.MaxUploadMB) << 20
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// parseList splits a comma-separated value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
