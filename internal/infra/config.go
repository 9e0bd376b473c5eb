package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const insecureSecret = "change-me-in-production"

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Record store
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/teamdesk.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"teamdesk"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"teamdesk"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"teamdesk"`

	// Store circuit breaker
	BreakerThreshold int           `env:"BREAKER_THRESHOLD" envDefault:"5"`
	BreakerReset     time.Duration `env:"BREAKER_RESET" envDefault:"30s"`

	// Reports
	AssetsDir        string        `env:"ASSETS_DIR" envDefault:"assets"`
	ClubName         string        `env:"CLUB_NAME" envDefault:"Club"`
	Category         string        `env:"CATEGORY"`
	ReportRateLimit  int           `env:"REPORT_RATE_LIMIT" envDefault:"10"`
	ReportRateWindow time.Duration `env:"REPORT_RATE_WINDOW" envDefault:"1m"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"teamdesk"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"12h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3100"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaGroupID string `env:"KAFKA_GROUP_ID" envDefault:"teamdesk-activity"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for settings the services cannot start with. Insecure
// JWT secrets are rejected unless ALLOW_INSECURE_DEFAULTS=true (local dev
// only).
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, sqlite or postgres, got %q", c.StoreBackend)
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("BREAKER_THRESHOLD must be positive, got %d", c.BreakerThreshold)
	}
	if c.ReportRateLimit < 1 {
		return fmt.Errorf("REPORT_RATE_LIMIT must be positive, got %d", c.ReportRateLimit)
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == insecureSecret {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
