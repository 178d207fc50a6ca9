package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// LogConfig controls the process-wide structured logger.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxFiles   int
	MaxAgeDays int
	Compress   bool
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
}

// StorageConfig holds object storage settings. Driver selects the backend ("minio" or "s3").
type StorageConfig struct {
	Driver    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// QueueConfig names the two dispatch queues and the message lifetime settings.
type QueueConfig struct {
	SummaryName          string
	TraitsName           string
	MessageTTLSec        int
	VisibilityTimeoutSec int
}

// Validate rejects queue settings that would make every enqueue fail.
func (q QueueConfig) Validate() error {
	var errs []error
	if q.SummaryName == "" || q.TraitsName == "" {
		errs = append(errs, errors.New("QUEUE_SUMMARY_NAME and QUEUE_TRAITS_NAME must be set"))
	} else if q.SummaryName == q.TraitsName {
		errs = append(errs, fmt.Errorf("summary and traits queues share the name %q", q.SummaryName))
	}
	if q.MessageTTLSec <= 0 {
		errs = append(errs, fmt.Errorf("QUEUE_MESSAGE_TTL_SEC must be positive, got %d", q.MessageTTLSec))
	}
	if q.VisibilityTimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("QUEUE_VISIBILITY_TIMEOUT_SEC must not be negative, got %d", q.VisibilityTimeoutSec))
	}
	return errors.Join(errs...)
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	BodyLimitMB int
	Log         LogConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Queue       QueueConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 100),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxFiles:   getEnvInt("LOG_MAX_FILES", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 0),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "minio"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "documents"),
			UseSSL:    getEnvBool("STORAGE_USE_SSL", false),
		},
		Queue: QueueConfig{
			SummaryName:          getEnv("QUEUE_SUMMARY_NAME", "document-summary"),
			TraitsName:           getEnv("QUEUE_TRAITS_NAME", "document-traits"),
			MessageTTLSec:        getEnvInt("QUEUE_MESSAGE_TTL_SEC", 7*24*60*60),
			VisibilityTimeoutSec: getEnvInt("QUEUE_VISIBILITY_TIMEOUT_SEC", 0),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
