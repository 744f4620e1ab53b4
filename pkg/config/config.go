package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	MetricsPort string
	ClientURL   string

	// Stores
	PostgresUrl          string
	PostgresMaxOpenConns int
	MongoURI             string
	MongoDatabase        string

	// Auth
	JWTSecret               string
	FirebaseCredentialsPath string

	// Image storage (Google Cloud Storage)
	GCSBucket          string
	GCSCredentialsPath string

	// Email (SMTP)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Rate limiting, requests per second per client
	RateLimitPerSecond float64
}

const defaultJWTSecret = "supersecretjwtkey"

// Load reads the configuration from the environment, after loading a .env
// file when one exists. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),

		PostgresUrl:          getEnv("POSTGRES_CONN_STR", ""),
		PostgresMaxOpenConns: getEnvInt("POSTGRES_MAX_OPEN_CONNS", 40),
		MongoURI:             getEnv("MONGO_URI", ""),
		MongoDatabase:        getEnv("MONGO_DATABASE", "connectin"),

		JWTSecret:               getEnv("JWT_SECRET", defaultJWTSecret),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "ConnectIn <no-reply@connectin.app>"),

		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
	}
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.PostgresUrl == "" {
		return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}
	if c.PostgresMaxOpenConns < 4 {
		return fmt.Errorf("POSTGRES_MAX_OPEN_CONNS must be at least 4")
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be changed from default in production")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EmailEnabled reports whether an SMTP relay is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

// ImageStorageEnabled reports whether a GCS bucket is configured.
func (c *Config) ImageStorageEnabled() bool {
	return c.GCSBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
