// Package config loads and validates the service configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/utafrali/MarketplaceGo/pkg/config"
	"github.com/utafrali/MarketplaceGo/pkg/database"
)

// Config is the full service configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"marketplace-api"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Token    TokenConfig
	Tracing  TracingConfig
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"20s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Addr returns the listen address.
func (c *HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PostgresConfig configures the database connection.
type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"marketplace"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:"marketplace"`
	DBName          string        `env:"POSTGRES_DB" envDefault:"marketplace"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// Database converts to the pool configuration.
func (c *PostgresConfig) Database() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.DBName,
		SSLMode:         c.SSLMode,
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
	}
}

// RedisConfig configures the optional response cache.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"30s"`
}

// Database converts to the client configuration.
func (c *RedisConfig) Database() *database.RedisConfig {
	return &database.RedisConfig{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
	}
}

// KafkaConfig configures the domain event producer.
type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"marketplace.events"`
}

// TokenConfig holds the signing secrets and lifetimes for each token usage.
// Access and refresh tokens are signed with independent secrets so one can
// never verify as the other.
type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET" envDefault:"dev-access-secret-change-me-in-prod"`
	AccessExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET" envDefault:"dev-refresh-secret-change-me-prod"`
	RefreshExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"TOKEN_ISSUER" envDefault:"marketplace-api"`
}

// TracingConfig configures trace export.
type TracingConfig struct {
	Enabled     bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_EXPORTER_ENDPOINT" envDefault:"localhost:4318"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1.0"`
}

const minSecretLength = 32

// Load parses the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production guarantees.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate enforces invariants that have to hold in every environment, plus
// stricter secret requirements in production.
func (c *Config) Validate() error {
	if c.Token.AccessSecret == "" || c.Token.RefreshSecret == "" {
		return errors.New("token secrets must not be empty")
	}
	if c.Token.AccessSecret == c.Token.RefreshSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.Token.AccessExpiry <= 0 || c.Token.RefreshExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}

	if c.IsProduction() {
		if len(c.Token.AccessSecret) < minSecretLength {
			return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least %d characters in production", minSecretLength)
		}
		if len(c.Token.RefreshSecret) < minSecretLength {
			return fmt.Errorf("REFRESH_TOKEN_SECRET must be at least %d characters in production", minSecretLength)
		}
		if c.Postgres.Password == "marketplace" {
			return errors.New("POSTGRES_PASSWORD must not use the default value in production")
		}
	}

	return nil
}
