package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all environment-provided settings for the service.
type Config struct {
	Environment string
	HTTPAddr    string

	// DatabaseURL is a Postgres DSN. When empty the service falls back to a
	// local SQLite file, which is the expected mode for development.
	DatabaseURL string
	SQLitePath  string

	// CronSecret guards the billing cron trigger. Requests without a matching
	// bearer token are rejected before any work happens.
	CronSecret string

	// AppBaseURL is used to build links embedded in outbound emails.
	AppBaseURL string

	Mail   MailConfig
	Worker WorkerConfig

	Tracing TracingConfig
}

// MailConfig configures the outbound email API client.
type MailConfig struct {
	APIURL    string
	APIKey    string
	FromEmail string
}

// WorkerConfig controls the optional in-process billing worker.
type WorkerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// TracingConfig mirrors the OTLP exporter settings.
type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Load reads configuration from the environment. A .env file is honored when
// present so local development matches deployed behavior.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  getenv("SQLITE_PATH", "motosub.db"),
		CronSecret:  strings.TrimSpace(os.Getenv("CRON_SECRET")),
		AppBaseURL:  strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:3000"), "/"),
		Mail: MailConfig{
			APIURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("MAIL_API_URL")), "/"),
			APIKey:    strings.TrimSpace(os.Getenv("MAIL_API_KEY")),
			FromEmail: getenv("MAIL_FROM", "billing@motosub.app"),
		},
		Worker: WorkerConfig{
			Enabled:  getbool("BILLING_WORKER_ENABLED", false),
			Interval: getduration("BILLING_WORKER_INTERVAL", 24*time.Hour),
		},
		Tracing: TracingConfig{
			Enabled:          getbool("TRACING_ENABLED", false),
			ExporterEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_ENDPOINT")),
			ExporterProtocol: getenv("OTEL_EXPORTER_PROTOCOL", "http"),
			SamplingRatio:    getfloat("OTEL_SAMPLING_RATIO", 1.0),
		},
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
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

func getduration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getfloat(key string, fallback float64) float64 {
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
