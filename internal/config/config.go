package config

import (
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port string
}

// StorageConfig holds content-directory and catalog-file settings.
type StorageConfig struct {
	// DataDir is the content directory holding uploaded PDFs. It is
	// also served statically under /data.
	DataDir string
	// CatalogPath is the JSON file holding the authoritative catalog.
	CatalogPath string
	// MaxUploadBytes caps uploaded file size.
	MaxUploadBytes int64
}

// MirrorConfig holds optional S3-compatible mirror settings. The
// mirror is disabled when Endpoint is empty.
type MirrorConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds the single hard-coded admin credential pair. There
// is no multi-user authentication in this system.
type AuthConfig struct {
	Username string
	Password string
}

// OfflineConfig holds paths for the client-side offline stores.
type OfflineConfig struct {
	CatalogPath string
	BlobDBPath  string
}

// AppConfig is the centralized configuration struct for the
// application, populated from environment variables. A .env file is
// auto-loaded by importing _ "github.com/joho/godotenv/autoload".
type AppConfig struct {
	Server  ServerConfig
	Storage StorageConfig
	Mirror  MirrorConfig
	Auth    AuthConfig
	Offline OfflineConfig

	// ScanSchedule is an optional cron expression for periodic
	// reconciliation scans; empty disables the scheduler.
	ScanSchedule string
}

// Load reads configuration from environment variables. Real
// environment variables take precedence over .env contents.
func Load() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Host: getEnv("APP_HOST", "localhost:3001"),
			Port: getEnv("PORT", "3001"),
		},
		Storage: StorageConfig{
			DataDir:        getEnv("DATA_DIR", "data"),
			CatalogPath:    getEnv("CATALOG_PATH", "clippings.json"),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		},
		Mirror: MirrorConfig{
			Endpoint:  getEnv("MIRROR_ENDPOINT", ""),
			AccessKey: getEnv("MIRROR_ACCESS_KEY", ""),
			SecretKey: getEnv("MIRROR_SECRET_KEY", ""),
			Bucket:    getEnv("MIRROR_BUCKET", "clippings"),
			UseSSL:    getEnvBool("MIRROR_USE_SSL", false),
		},
		Auth: AuthConfig{
			Username: getEnv("ADMIN_USER", "ntpc"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Offline: OfflineConfig{
			CatalogPath: getEnv("OFFLINE_CATALOG_PATH", "offline/clippings.json"),
			BlobDBPath:  getEnv("OFFLINE_BLOB_DB", "offline/pdfs.db"),
		},
		ScanSchedule: strings.TrimSpace(getEnv("SCAN_SCHEDULE", "")),
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
