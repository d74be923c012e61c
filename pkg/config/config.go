package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

const devJWTSecret = "supersecretjwtkey"

// Config holds every setting the server reads from the environment
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	PostgresURL   string `envconfig:"POSTGRES_CONN_STR"`
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"nano_social"`

	JWTSecret        string        `envconfig:"JWT_SECRET" default:"supersecretjwtkey"`
	JWTRefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"supersecretjwtkey-refresh"`
	AccessTokenTTL   time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL  time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`

	FirebaseCredentialsPath string `envconfig:"FIREBASE_CREDENTIALS_PATH"`

	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"30"`

	NotifyWorkers   int `envconfig:"NOTIFY_WORKERS" default:"4"`
	NotifyQueueSize int `envconfig:"NOTIFY_QUEUE_SIZE" default:"1024"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether ENV is development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.PostgresURL == "" {
		return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}
	if c.NotifyWorkers < 1 || c.NotifyQueueSize < 1 {
		return fmt.Errorf("NOTIFY_WORKERS and NOTIFY_QUEUE_SIZE must be positive")
	}
	if !c.IsDevelopment() && (c.JWTSecret == devJWTSecret || c.JWTSecret == "") {
		return fmt.Errorf("JWT_SECRET must be set outside development")
	}
	return nil
}

// LogSummary writes the effective configuration without secrets
func (c *Config) LogSummary(log zerolog.Logger) {
	log.Info().
		Str("env", c.Env).
		Str("port", c.Port).
		Str("metrics_port", c.MetricsPort).
		Str("mongo_database", c.MongoDatabase).
		Bool("firebase_enabled", c.FirebaseCredentialsPath != "").
		Dur("access_token_ttl", c.AccessTokenTTL).
		Float64("rate_limit_rps", c.RateLimitRPS).
		Int("notify_workers", c.NotifyWorkers).
		Msg("configuration loaded")
}
