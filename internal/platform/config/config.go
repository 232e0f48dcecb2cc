package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                    string
	DatabaseURL             string
	SessionSecret           string
	DataEncryptionKey       string
	Environment             string
	Timezone                string
	SessionTTL              time.Duration
	CookieSecure            bool
	UploadDir               string
	MaxUploadBytes          int64
	RunMigrations           bool
	RunSeed                 bool
	SeedAdminPassword       string
	SeedHRPassword          string
	SeedEmployeePassword    string
	SeedClientPassword      string
	DefaultEmployeePassword string
	DefaultClientPassword   string
	LoginRateLimit          string
	Features                []string
	MetricsEnabled          bool
}

// Load reads a local .env file when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "err", err)
	}

	return Config{
		Addr:                    getEnv("APP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		SessionSecret:           getEnv("SESSION_SECRET", ""),
		DataEncryptionKey:       getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:             getEnv("APP_ENV", "development"),
		Timezone:                getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		SessionTTL:              getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:            getEnvBool("COOKIE_SECURE", false),
		UploadDir:               getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:          int64(getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		RunMigrations:           getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                 getEnvBool("RUN_SEED", true),
		SeedAdminPassword:       getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedHRPassword:          getEnv("SEED_HR_PASSWORD", ""),
		SeedEmployeePassword:    getEnv("SEED_EMPLOYEE_PASSWORD", ""),
		SeedClientPassword:      getEnv("SEED_CLIENT_PASSWORD", ""),
		DefaultEmployeePassword: getEnv("DEFAULT_EMPLOYEE_PASSWORD", "123456"),
		DefaultClientPassword:   getEnv("DEFAULT_CLIENT_PASSWORD", "client123"),
		LoginRateLimit:          getEnv("LOGIN_RATE_LIMIT", "10-M"),
		Features:                getEnvList("FEATURES", []string{"client", "employee_input", "admin"}),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q is not a known zone: %w", c.Timezone, err)
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.SessionSecret) == "" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong value in production")
		}
		if !c.CookieSecure {
			return fmt.Errorf("COOKIE_SECURE must be enabled in production")
		}
		if c.RunSeed && (c.SeedAdminPassword == "admin123" || c.SeedEmployeePassword == "employee123" || c.SeedClientPassword == "client123") {
			return fmt.Errorf("default seed passwords must be changed or RUN_SEED disabled in production")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	if strings.TrimSpace(c.LoginRateLimit) == "" {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be empty")
	}
	if strings.TrimSpace(c.DefaultEmployeePassword) == "" || strings.TrimSpace(c.DefaultClientPassword) == "" {
		return fmt.Errorf("default account passwords must not be empty")
	}
	return nil
}
