package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig         `envPrefix:"APP_"`
	Database    DatabaseConfig    `envPrefix:"DB_"`
	JWT         JWTConfig         `envPrefix:"JWT_"`
	CORS        CORSConfig        `envPrefix:"CORS_"`
	Engine      EngineConfig      `envPrefix:"ENGINE_"`
	RabbitMQ    RabbitMQConfig    `envPrefix:"RABBITMQ_"`
	HolidaySync HolidaySyncConfig `envPrefix:"HOLIDAY_SYNC_"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	Env             string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"false"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"timeclock"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"MIN_CONNS" envDefault:"5"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"SECRET_KEY"`
	AccessExpiration string `env:"ACCESS_EXPIRATION_TIME" envDefault:"1h"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// EngineConfig tunes punch classification.
type EngineConfig struct {
	DefaultTimezone         string `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`
	BulkBatchSize           int    `env:"BULK_BATCH_SIZE" envDefault:"10"`
	BulkMaxRecords          int    `env:"BULK_MAX_RECORDS" envDefault:"100"`
	RotatingOffDayAsRestDay bool   `env:"ROTATING_OFF_DAY_AS_REST_DAY" envDefault:"true"`
	RotatingPenalties       bool   `env:"ROTATING_PENALTIES" envDefault:"false"`
}

// RabbitMQConfig enables event publishing when DSN is set.
type RabbitMQConfig struct {
	DSN            string        `env:"DSN"`
	Queue          string        `env:"QUEUE" envDefault:"timeclock.overtime"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"5s"`
}

// HolidaySyncConfig schedules a periodic import of a public holiday feed.
// The job is off unless both URL and CompanyIDs are set.
type HolidaySyncConfig struct {
	URL        string        `env:"URL"`
	CompanyIDs []string      `env:"COMPANY_IDS" envSeparator:","`
	Interval   time.Duration `env:"INTERVAL" envDefault:"24h"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

func (h HolidaySyncConfig) Enabled() bool {
	return h.URL != "" && len(h.CompanyIDs) > 0
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, fmt.Errorf("invalid configuration: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var problems []string
	if c.Database.Password == "" {
		problems = append(problems, "DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		problems = append(problems, "JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		problems = append(problems, "JWT_ACCESS_EXPIRATION_TIME must be a duration")
	}
	if _, err := time.LoadLocation(c.Engine.DefaultTimezone); err != nil {
		problems = append(problems, fmt.Sprintf("ENGINE_DEFAULT_TIMEZONE %q is not a known zone", c.Engine.DefaultTimezone))
	}
	if c.Engine.BulkBatchSize <= 0 || c.Engine.BulkMaxRecords <= 0 {
		problems = append(problems, "ENGINE_BULK_BATCH_SIZE and ENGINE_BULK_MAX_RECORDS must be positive")
	}
	if c.HolidaySync.URL != "" && c.HolidaySync.Interval <= 0 {
		problems = append(problems, "HOLIDAY_SYNC_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultLocation resolves Engine.DefaultTimezone. Validate has already checked it.
func (c *Config) DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(c.Engine.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps App.LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
