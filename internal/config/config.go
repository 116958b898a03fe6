// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the API process.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string

	HTTPAddr string

	DatabaseURL string

	Tracing   TracingConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Snapshot  SnapshotConfig
	Bootstrap BootstrapConfig
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// RateLimitConfig controls the fixed-window limiter on mutating routes.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// StorageConfig points at the attachment object store.
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	UsePathStyle  bool
	PresignExpiry time.Duration
}

// SnapshotConfig controls the vendor cost snapshot worker.
type SnapshotConfig struct {
	Enabled      bool
	BatchSize    int
	PollInterval time.Duration
}

// BootstrapConfig controls first-run seeding.
type BootstrapConfig struct {
	EnsureDefaultOrgAndAdmin bool
	AdminSecret              string
}

// Load reads configuration from the environment, honouring a local .env file
// when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment:    envString("WASSEL_ENV", "development"),
		ServiceName:    envString("WASSEL_SERVICE_NAME", "wassel-api"),
		ServiceVersion: envString("WASSEL_SERVICE_VERSION", "dev"),
		HTTPAddr:       envString("WASSEL_HTTP_ADDR", ":8080"),
		DatabaseURL:    envString("WASSEL_DATABASE_URL", ""),
		Tracing: TracingConfig{
			Enabled:          envBool("WASSEL_TRACING_ENABLED", false),
			ExporterEndpoint: envString("WASSEL_TRACING_ENDPOINT", ""),
			ExporterProtocol: envString("WASSEL_TRACING_PROTOCOL", "grpc"),
			SamplingRatio:    envFloat("WASSEL_TRACING_SAMPLING_RATIO", 1.0),
		},
		RateLimit: RateLimitConfig{
			Limit:  envInt("WASSEL_RATE_LIMIT", 60),
			Window: envDuration("WASSEL_RATE_LIMIT_WINDOW", time.Minute),
		},
		Storage: StorageConfig{
			Bucket:        envString("WASSEL_STORAGE_BUCKET", "wassel-attachments"),
			Region:        envString("WASSEL_STORAGE_REGION", "me-south-1"),
			Endpoint:      envString("WASSEL_STORAGE_ENDPOINT", ""),
			UsePathStyle:  envBool("WASSEL_STORAGE_PATH_STYLE", false),
			PresignExpiry: envDuration("WASSEL_STORAGE_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Snapshot: SnapshotConfig{
			Enabled:      envBool("WASSEL_SNAPSHOT_ENABLED", true),
			BatchSize:    envInt("WASSEL_SNAPSHOT_BATCH_SIZE", 50),
			PollInterval: envDuration("WASSEL_SNAPSHOT_POLL_INTERVAL", 5*time.Minute),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultOrgAndAdmin: envBool("WASSEL_BOOTSTRAP", true),
			AdminSecret:              envString("WASSEL_BOOTSTRAP_ADMIN_SECRET", "admin"),
		},
	}
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
