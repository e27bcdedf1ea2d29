package config

import (
	"os"
	"strconv"
	"strings"
)

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
}

// StorageConfig selects where uploaded files are staged while an extraction is processed.
// Driver is either "local" (a directory on disk) or "minio" (S3-compatible bucket).
type StorageConfig struct {
	Driver   string
	LocalDir string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// IngestConfig bounds what the extraction pipeline accepts.
type IngestConfig struct {
	MaxFileSizeBytes int64
	AllowedMimeTypes []string
}

// NotifierConfig points at the downstream service that is told about new extraction data.
// An empty URL disables notifications.
type NotifierConfig struct {
	URL        string
	TimeoutSec int
	RetryMax   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port               string
	Timezone           string
	ShutdownTimeoutSec int
	HookMaxWorkers     int
	Database           DatabaseConfig
	Storage            StorageConfig
	MinIO              MinIOConfig
	Ingest             IngestConfig
	Notifier           NotifierConfig
}

// DefaultMaxFileSizeBytes is the upload limit applied when INGEST_MAX_FILE_SIZE_BYTES is unset (5 MiB).
const DefaultMaxFileSizeBytes int64 = 5 << 20

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:               getEnv("PORT", "8080"),
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
		HookMaxWorkers:     getEnvInt("HOOK_MAX_WORKERS", 16),
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
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", os.TempDir()),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Ingest: IngestConfig{
			MaxFileSizeBytes: getEnvInt64("INGEST_MAX_FILE_SIZE_BYTES", DefaultMaxFileSizeBytes),
			AllowedMimeTypes: getEnvList("INGEST_ALLOWED_MIME_TYPES", []string{"text/csv"}),
		},
		Notifier: NotifierConfig{
			URL:        getEnv("NOTIFY_URL", ""),
			TimeoutSec: getEnvInt("NOTIFY_TIMEOUT_SEC", 5),
			RetryMax:   getEnvInt("NOTIFY_RETRY_MAX", 0),
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

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil && i > 0 {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
