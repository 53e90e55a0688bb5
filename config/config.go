package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the settings of the HTTP front end.
type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Upload    UploadConfig    `envPrefix:"UPLOAD_"`
	Schedule  ScheduleConfig  `envPrefix:"SCHEDULE_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	CORS      CORSConfig      `envPrefix:"CORS_"`
	Logging   LoggingConfig   `envPrefix:"LOG_"`
	Metrics   MetricsConfig   `envPrefix:"METRICS_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080" validate:"required"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// UploadConfig limits uploaded demand files.
type UploadConfig struct {
	MaxBytes int64 `env:"MAX_BYTES" envDefault:"10485760" validate:"gt=0"`
}

// ScheduleConfig holds defaults applied when a request leaves them out.
type ScheduleConfig struct {
	DefaultUtilization float64 `env:"DEFAULT_UTILIZATION" envDefault:"1.0" validate:"gt=0,lte=1"`
	Capacity           int     `env:"CAPACITY" envDefault:"0" validate:"gte=0"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `env:"ENABLED" envDefault:"true"`
	RequestsPerSecond float64 `env:"RPS" envDefault:"10" validate:"gt=0"`
	Burst             int     `env:"BURST" envDefault:"20" validate:"gte=1"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:"," validate:"min=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"FORMAT" envDefault:"json" validate:"oneof=json text"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given environment and validates it.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), rule, fe.Value()))
	}
	return stderrors.New("configuration errors:\n  - " + strings.Join(msgs, "\n  - "))
}
